package model

import (
	"strings"
	"unicode"
)

// Organization is a tenant. Every business record hangs off one.
type Organization struct {
	Base
	Name     string `gorm:"column:name" json:"name"`
	Slug     string `gorm:"column:slug" json:"slug"`
	Industry string `gorm:"column:industry" json:"industry"`
	Active   bool   `gorm:"column:active" json:"active"`
}

func (Organization) TableName() string {
	return "organizations"
}

// Slugify lowercases name and joins its letters and digits with dashes,
// e.g. "Acme Corp." becomes "acme-corp".
func Slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}
