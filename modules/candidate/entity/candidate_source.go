package entity

import (
	"recruitsync/core/entity"
)

// DescriptionPrefixLen bounds how much of an event description participates
// in the source natural key.
const DescriptionPrefixLen = 100

// CandidateSource marks one event's content as a source of candidates.
// Natural key: (domain_key, description_prefix); all attendees of the same
// event share one row.
type CandidateSource struct {
	entity.BaseEntity
	Title             string `db:"title" json:"title"`
	DescriptionPrefix string `db:"description_prefix" json:"description_prefix"`
	DomainKey         string `db:"domain_key" json:"domain_key"`
}

func (CandidateSource) TableName() string {
	return "candidate_sources"
}
