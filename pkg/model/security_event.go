package model

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEvent is a persisted activity log entry. Rows are written by the
// audit package through database/sql; GORM only reads them.
type SecurityEvent struct {
	ID             int64                        `gorm:"column:id;primaryKey" json:"id"`
	Timestamp      time.Time                    `gorm:"column:timestamp" json:"timestamp"`
	Facility       int                          `gorm:"column:facility" json:"facility"`
	Severity       int                          `gorm:"column:severity" json:"severity"`
	Hostname       string                       `gorm:"column:hostname" json:"hostname"`
	AppName        string                       `gorm:"column:appname" json:"appname"`
	ProcID         string                       `gorm:"column:procid" json:"procid"`
	MsgID          string                       `gorm:"column:msgid" json:"msgid"`
	ActorID        *uuid.UUID                   `gorm:"column:actor_id;type:uuid" json:"actor_id,omitempty"`
	OrganizationID *uuid.UUID                   `gorm:"column:organization_id;type:uuid" json:"organization_id,omitempty"`
	IP             string                       `gorm:"column:ip" json:"ip"`
	SData          map[string]map[string]string `gorm:"column:sdata;type:jsonb;serializer:json" json:"sdata,omitempty"`
	Message        string                       `gorm:"column:message" json:"message"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}
