package models

import "time"

// ArchiveKind names the document types that are archived after issue.
type ArchiveKind string

const (
	ArchiveKindReceipt     ArchiveKind = "receipt"
	ArchiveKindCertificate ArchiveKind = "certificate"
)

// ArchiveLink points at an archived PDF. Local files get a signed, expiring URL.
type ArchiveLink struct {
	Kind      ArchiveKind `json:"kind"`
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Remote    bool        `json:"remote"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}
