package models

import "time"

// AuditLog records an admin action on a resource
type AuditLog struct {
	ID         string                 `bson:"_id" json:"id"`
	Action     string                 `bson:"action" json:"action"`
	Resource   string                 `bson:"resource" json:"resource"`
	ResourceID string                 `bson:"resource_id" json:"resource_id"`
	UserID     string                 `bson:"user_id" json:"user_id"`
	UserEmail  string                 `bson:"user_email" json:"user_email"`
	OldValue   interface{}            `bson:"old_value,omitempty" json:"old_value,omitempty"`
	NewValue   interface{}            `bson:"new_value,omitempty" json:"new_value,omitempty"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IPAddress  string                 `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent  string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	RequestID  string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Timestamp  time.Time              `bson:"timestamp" json:"timestamp"`
}
