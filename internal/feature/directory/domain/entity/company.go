// Package entity defines the domain models for the directory feature.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Logical field names accepted by keyword queries. They match the JSON keys of the seed file.
const (
	FieldIssuerName   = "issuerName"
	FieldSecurityName = "securityName"
	FieldSecurityID   = "securityId"
)

// ErrInvalidCompany is returned when a record misses a required field or carries a negative face value.
var ErrInvalidCompany = errors.New("invalid company record")

// Company represents one listed security in the directory.
// SecurityCode uniquely identifies a record; Industry, IndustryNewName,
// IgroupName and IsubgroupName are optional.
type Company struct {
	ID              string  `json:"id,omitempty"`
	SecurityCode    string  `json:"securityCode"`
	IssuerName      string  `json:"issuerName"`
	SecurityID      string  `json:"securityId"`
	SecurityName    string  `json:"securityName"`
	Status          string  `json:"status"`
	Group           string  `json:"group"`
	FaceValue       float64 `json:"faceValue"`
	IsinNo          string  `json:"isinNo"`
	Industry        string  `json:"industry,omitempty"`
	Instrument      string  `json:"instrument"`
	SectorName      string  `json:"sectorName"`
	IndustryNewName string  `json:"industryNewName,omitempty"`
	IgroupName      string  `json:"igroupName,omitempty"`
	IsubgroupName   string  `json:"isubgroupName,omitempty"`
}

// Validate checks requiredness of the descriptive fields and the face value bound.
func (c Company) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"securityCode", c.SecurityCode},
		{"isinNo", c.IsinNo},
		{"issuerName", c.IssuerName},
		{"securityId", c.SecurityID},
		{"securityName", c.SecurityName},
		{"status", c.Status},
		{"group", c.Group},
		{"instrument", c.Instrument},
		{"sectorName", c.SectorName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required (securityCode=%q)", ErrInvalidCompany, f.name, c.SecurityCode)
		}
	}
	if c.FaceValue < 0 {
		return fmt.Errorf("%w: faceValue must not be negative (securityCode=%q)", ErrInvalidCompany, c.SecurityCode)
	}
	return nil
}

// ValidateAll validates every record and reports the first failure with its position.
func ValidateAll(companies []Company) error {
	for i, c := range companies {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// SearchResult is the projection returned by keyword search.
// securityName takes part in matching but is deliberately not projected.
type SearchResult struct {
	ID         string `json:"id"`
	IssuerName string `json:"issuerName"`
	SecurityID string `json:"securityId"`
}

// KeywordQuery describes a case-insensitive substring lookup across several fields.
type KeywordQuery struct {
	Keyword string
	Fields  []string
	Limit   int
}
