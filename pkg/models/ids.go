package models

import "fmt"

// Ref identifies one record in one collection. Identifiers are only unique
// within a collection, so every variant carries its collection in its type.
type Ref interface {
	Collection() Collection
	String() string
	isRef()
}

type (
	JobID            string
	EventID          string
	VolunteerID      string
	InternshipID     string
	BlogPostID       string
	SalaryGuideID    string
	ReadingID        string
	CountryID        string
	QualificationID  string
	ForumPostID      string
	EthicsID         string
	TheoryID         string
	LicensureID      string
	ResearchID       string
	SocialWorkTypeID string
)

func (JobID) Collection() Collection            { return Jobs }
func (EventID) Collection() Collection          { return Events }
func (VolunteerID) Collection() Collection      { return VolunteerOpportunities }
func (InternshipID) Collection() Collection     { return Internships }
func (BlogPostID) Collection() Collection       { return BlogPosts }
func (SalaryGuideID) Collection() Collection    { return SalaryGuides }
func (ReadingID) Collection() Collection        { return Readings }
func (CountryID) Collection() Collection        { return Countries }
func (QualificationID) Collection() Collection  { return Qualifications }
func (ForumPostID) Collection() Collection      { return ForumPosts }
func (EthicsID) Collection() Collection         { return EthicsGuidelines }
func (TheoryID) Collection() Collection         { return Theories }
func (LicensureID) Collection() Collection      { return LicensureInfos }
func (ResearchID) Collection() Collection       { return ResearchPapers }
func (SocialWorkTypeID) Collection() Collection { return SocialWorkTypes }

func (id JobID) String() string            { return string(id) }
func (id EventID) String() string          { return string(id) }
func (id VolunteerID) String() string      { return string(id) }
func (id InternshipID) String() string     { return string(id) }
func (id BlogPostID) String() string       { return string(id) }
func (id SalaryGuideID) String() string    { return string(id) }
func (id ReadingID) String() string        { return string(id) }
func (id CountryID) String() string        { return string(id) }
func (id QualificationID) String() string  { return string(id) }
func (id ForumPostID) String() string      { return string(id) }
func (id EthicsID) String() string         { return string(id) }
func (id TheoryID) String() string         { return string(id) }
func (id LicensureID) String() string      { return string(id) }
func (id ResearchID) String() string       { return string(id) }
func (id SocialWorkTypeID) String() string { return string(id) }

func (JobID) isRef()            {}
func (EventID) isRef()          {}
func (VolunteerID) isRef()      {}
func (InternshipID) isRef()     {}
func (BlogPostID) isRef()       {}
func (SalaryGuideID) isRef()    {}
func (ReadingID) isRef()        {}
func (CountryID) isRef()        {}
func (QualificationID) isRef()  {}
func (ForumPostID) isRef()      {}
func (EthicsID) isRef()         {}
func (TheoryID) isRef()         {}
func (LicensureID) isRef()      {}
func (ResearchID) isRef()       {}
func (SocialWorkTypeID) isRef() {}

// NewRef builds the typed identifier for an untyped (collection, id) pair
// arriving from an outer surface such as a URL path.
func NewRef(c Collection, id string) (Ref, error) {
	if id == "" {
		return nil, fmt.Errorf("empty id for collection %s", c)
	}
	switch c {
	case Jobs:
		return JobID(id), nil
	case Events:
		return EventID(id), nil
	case VolunteerOpportunities:
		return VolunteerID(id), nil
	case Internships:
		return InternshipID(id), nil
	case BlogPosts:
		return BlogPostID(id), nil
	case SalaryGuides:
		return SalaryGuideID(id), nil
	case Readings:
		return ReadingID(id), nil
	case Countries:
		return CountryID(id), nil
	case Qualifications:
		return QualificationID(id), nil
	case ForumPosts:
		return ForumPostID(id), nil
	case EthicsGuidelines:
		return EthicsID(id), nil
	case Theories:
		return TheoryID(id), nil
	case LicensureInfos:
		return LicensureID(id), nil
	case ResearchPapers:
		return ResearchID(id), nil
	case SocialWorkTypes:
		return SocialWorkTypeID(id), nil
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}
