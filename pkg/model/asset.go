package model

import "github.com/google/uuid"

type Asset struct {
	Base
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	OwnerID        uuid.UUID `gorm:"column:owner_id;type:uuid" json:"owner_id"`
	Name           string    `gorm:"column:name" json:"name"`
	Description    string    `gorm:"column:description" json:"description"`
	Type           AssetType `gorm:"column:type" json:"type"`
	Criticality    Severity  `gorm:"column:criticality" json:"criticality"`
	Environment    string    `gorm:"column:environment" json:"environment"`

	Tags      []Tag                `gorm:"many2many:asset_tags" json:"tags,omitempty"`
	Endpoints []DiscoveredEndpoint `gorm:"foreignKey:AssetID" json:"endpoints,omitempty"`
}

func (Asset) TableName() string {
	return "assets"
}

func (a *Asset) OrgID() uuid.UUID       { return a.OrganizationID }
func (a *Asset) OwnerUserID() uuid.UUID { return a.OwnerID }

type Tag struct {
	Base
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	Name           string    `gorm:"column:name" json:"name"`
	Color          string    `gorm:"column:color" json:"color"`
}

func (Tag) TableName() string {
	return "tags"
}

type DiscoveredEndpoint struct {
	Base
	OrganizationID uuid.UUID  `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	AssetID        *uuid.UUID `gorm:"column:asset_id;type:uuid" json:"asset_id"`
	Method         string     `gorm:"column:method" json:"method"`
	Host           string     `gorm:"column:host" json:"host"`
	Path           string     `gorm:"column:path" json:"path"`
	Source         string     `gorm:"column:source" json:"source"`
	AuthRequired   bool       `gorm:"column:auth_required" json:"auth_required"`
}

func (DiscoveredEndpoint) TableName() string {
	return "discovered_endpoints"
}
