package models

import (
	"encoding/json"
	"fmt"
)

// Document is the storage-level shape of a record: field name to value,
// with nested lists decoded as []interface{} of map[string]interface{}.
type Document map[string]interface{}

// Record is implemented by the fifteen entity types
type Record interface {
	Collection() Collection
	Ref() Ref
	isRecord()
}

type Job struct {
	ID           JobID   `json:"id,omitempty"`
	Title        string  `json:"title" validate:"required"`
	Organization string  `json:"organization" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	Salary       *string `json:"salary,omitempty"`
	Type         string  `json:"type" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	PostedAt     string  `json:"postedAt" validate:"required"`
}

type Event struct {
	ID          EventID `json:"id,omitempty"`
	Title       string  `json:"title" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	Location    string  `json:"location" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=webinar in-person"`
}

type VolunteerOpportunity struct {
	ID           VolunteerID `json:"id,omitempty"`
	Title        string      `json:"title" validate:"required"`
	Organization string      `json:"organization" validate:"required"`
	Commitment   string      `json:"commitment" validate:"required"`
	Location     string      `json:"location" validate:"required"`
	Description  string      `json:"description" validate:"required"`
}

type Internship struct {
	ID           InternshipID `json:"id,omitempty"`
	Title        string       `json:"title" validate:"required"`
	Organization string       `json:"organization" validate:"required"`
	Duration     string       `json:"duration" validate:"required"`
	Focus        string       `json:"focus" validate:"required"`
	Description  *string      `json:"description,omitempty"`
}

// BlogPost content is Markdown. AuthorID is reserved and never resolved.
type BlogPost struct {
	ID       BlogPostID `json:"id,omitempty"`
	Title    string     `json:"title" validate:"required"`
	Date     string     `json:"date" validate:"required"`
	Excerpt  string     `json:"excerpt" validate:"required"`
	Content  string     `json:"content" validate:"required"`
	AuthorID *string    `json:"authorId,omitempty"`
}

type SalaryGuide struct {
	ID              SalaryGuideID `json:"id,omitempty"`
	Role            string        `json:"role" validate:"required"`
	ExperienceLevel string        `json:"experienceLevel" validate:"required"`
	Range           string        `json:"range" validate:"required"`
	Category        *string       `json:"category,omitempty"`
}

// Reading is a recommended book or article. FileURL is resolved on read and never stored.
type Reading struct {
	ID            ReadingID `json:"id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Author        string    `json:"author" validate:"required"`
	Year          string    `json:"year" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Link          *string   `json:"link,omitempty"`
	FileStorageID *string   `json:"fileStorageId,omitempty"`
	FileURL       *string   `json:"fileUrl,omitempty"`
}

type Regulator struct {
	Name string  `json:"name" validate:"required"`
	URL  *string `json:"url,omitempty"`
}

type Country struct {
	ID         CountryID   `json:"id,omitempty"`
	Name       string      `json:"name" validate:"required"`
	Region     string      `json:"region" validate:"required"`
	Regulators []Regulator `json:"regulators" validate:"dive"`
}

type Qualification struct {
	ID          QualificationID `json:"id,omitempty"`
	Level       string          `json:"level" validate:"required"`
	Duration    string          `json:"duration" validate:"required"`
	Description string          `json:"description" validate:"required"`
	NextSteps   string          `json:"nextSteps" validate:"required"`
}

type ForumPost struct {
	ID       ForumPostID `json:"id,omitempty"`
	Category string      `json:"category" validate:"required"`
	Title    string      `json:"title" validate:"required"`
	Content  string      `json:"content" validate:"required"`
	Author   string      `json:"author" validate:"required"`
	PostedAt string      `json:"postedAt" validate:"required"`
}

type EthicsGuideline struct {
	ID       EthicsID `json:"id,omitempty"`
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category *string  `json:"category,omitempty"`
}

type Theory struct {
	ID          TheoryID `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
}

// LicensureInfo.Type selects list, paragraph or notice rendering
type LicensureInfo struct {
	ID       LicensureID `json:"id,omitempty"`
	Category string      `json:"category" validate:"required"`
	Content  string      `json:"content" validate:"required"`
	Type     string      `json:"type" validate:"required,oneof=paragraph list notice"`
}

type Research struct {
	ID            ResearchID `json:"id,omitempty"`
	Title         string     `json:"title" validate:"required"`
	Author        string     `json:"author" validate:"required"`
	Year          string     `json:"year" validate:"required"`
	Type          string     `json:"type" validate:"required,oneof='Research Paper' Dissertation 'Policy Brief'"`
	Description   string     `json:"description" validate:"required"`
	FileStorageID *string    `json:"fileStorageId,omitempty"`
	FileURL       *string    `json:"fileUrl,omitempty"`
}

// SocialWorkType.TypicalWorkplaces is a comma-joined list
type SocialWorkType struct {
	ID                SocialWorkTypeID `json:"id,omitempty"`
	Title             string           `json:"title" validate:"required"`
	Description       string           `json:"description" validate:"required"`
	TypicalWorkplaces string           `json:"typicalWorkplaces" validate:"required"`
}

func (*Job) Collection() Collection                  { return Jobs }
func (*Event) Collection() Collection                { return Events }
func (*VolunteerOpportunity) Collection() Collection { return VolunteerOpportunities }
func (*Internship) Collection() Collection           { return Internships }
func (*BlogPost) Collection() Collection             { return BlogPosts }
func (*SalaryGuide) Collection() Collection          { return SalaryGuides }
func (*Reading) Collection() Collection              { return Readings }
func (*Country) Collection() Collection              { return Countries }
func (*Qualification) Collection() Collection        { return Qualifications }
func (*ForumPost) Collection() Collection            { return ForumPosts }
func (*EthicsGuideline) Collection() Collection      { return EthicsGuidelines }
func (*Theory) Collection() Collection               { return Theories }
func (*LicensureInfo) Collection() Collection        { return LicensureInfos }
func (*Research) Collection() Collection             { return ResearchPapers }
func (*SocialWorkType) Collection() Collection       { return SocialWorkTypes }

func (r *Job) Ref() Ref                  { return r.ID }
func (r *Event) Ref() Ref                { return r.ID }
func (r *VolunteerOpportunity) Ref() Ref { return r.ID }
func (r *Internship) Ref() Ref           { return r.ID }
func (r *BlogPost) Ref() Ref             { return r.ID }
func (r *SalaryGuide) Ref() Ref          { return r.ID }
func (r *Reading) Ref() Ref              { return r.ID }
func (r *Country) Ref() Ref              { return r.ID }
func (r *Qualification) Ref() Ref        { return r.ID }
func (r *ForumPost) Ref() Ref            { return r.ID }
func (r *EthicsGuideline) Ref() Ref      { return r.ID }
func (r *Theory) Ref() Ref               { return r.ID }
func (r *LicensureInfo) Ref() Ref        { return r.ID }
func (r *Research) Ref() Ref             { return r.ID }
func (r *SocialWorkType) Ref() Ref       { return r.ID }

func (*Job) isRecord()                  {}
func (*Event) isRecord()                {}
func (*VolunteerOpportunity) isRecord() {}
func (*Internship) isRecord()           {}
func (*BlogPost) isRecord()             {}
func (*SalaryGuide) isRecord()          {}
func (*Reading) isRecord()              {}
func (*Country) isRecord()              {}
func (*Qualification) isRecord()        {}
func (*ForumPost) isRecord()            {}
func (*EthicsGuideline) isRecord()      {}
func (*Theory) isRecord()               {}
func (*LicensureInfo) isRecord()        {}
func (*Research) isRecord()             {}
func (*SocialWorkType) isRecord()       {}

// NewRecord returns an empty record of the collection's entity type
func NewRecord(c Collection) (Record, error) {
	switch c {
	case Jobs:
		return &Job{}, nil
	case Events:
		return &Event{}, nil
	case VolunteerOpportunities:
		return &VolunteerOpportunity{}, nil
	case Internships:
		return &Internship{}, nil
	case BlogPosts:
		return &BlogPost{}, nil
	case SalaryGuides:
		return &SalaryGuide{}, nil
	case Readings:
		return &Reading{}, nil
	case Countries:
		return &Country{}, nil
	case Qualifications:
		return &Qualification{}, nil
	case ForumPosts:
		return &ForumPost{}, nil
	case EthicsGuidelines:
		return &EthicsGuideline{}, nil
	case Theories:
		return &Theory{}, nil
	case LicensureInfos:
		return &LicensureInfo{}, nil
	case ResearchPapers:
		return &Research{}, nil
	case SocialWorkTypes:
		return &SocialWorkType{}, nil
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}

// DecodeRecord unmarshals JSON into the collection's entity type
func DecodeRecord(c Collection, data []byte) (Record, error) {
	rec, err := NewRecord(c)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c, err)
	}
	return rec, nil
}

// ToDocument returns the persisted fields of r. The identifier and the
// derived fileUrl are not part of the document.
func ToDocument(r Record) (Document, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "id")
	delete(doc, "fileUrl")
	return doc, nil
}

// FromDocument rebuilds a typed record from stored fields and its identifier
func FromDocument(c Collection, id string, doc Document) (Record, error) {
	withID := make(Document, len(doc)+1)
	for k, v := range doc {
		withID[k] = v
	}
	withID["id"] = id
	data, err := json.Marshal(withID)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(c, data)
}

// Clone returns a deep copy of r
func Clone(r Record) (Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(r.Collection(), data)
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or ""
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
