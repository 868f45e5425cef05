package models

import "fmt"

// Collection names one persisted set of records of a single kind
type Collection string

const (
	Jobs                   Collection = "jobs"
	Events                 Collection = "events"
	VolunteerOpportunities Collection = "volunteerOpportunities"
	Internships            Collection = "internships"
	BlogPosts              Collection = "blogPosts"
	SalaryGuides           Collection = "salaryGuides"
	Readings               Collection = "recommendedReadings"
	Countries              Collection = "countries"
	Qualifications         Collection = "qualifications"
	ForumPosts             Collection = "forumPosts"
	EthicsGuidelines       Collection = "ethicsGuidelines"
	Theories               Collection = "theories"
	LicensureInfos         Collection = "licensureInfo"
	ResearchPapers         Collection = "research"
	SocialWorkTypes        Collection = "socialWorkTypes"
)

// AllCollections lists every collection in navigation order
var AllCollections = []Collection{
	Jobs, VolunteerOpportunities, Events, Internships, BlogPosts, ForumPosts,
	SalaryGuides, Readings, Countries, Qualifications, EthicsGuidelines,
	Theories, LicensureInfos, ResearchPapers, SocialWorkTypes,
}

// ParseCollection validates a collection name
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	for _, known := range AllCollections {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

func (c Collection) String() string { return string(c) }

// NewestFirst reports whether the collection is a feed listed in reverse insertion order
func (c Collection) NewestFirst() bool {
	switch c {
	case Jobs, BlogPosts, ForumPosts:
		return true
	}
	return false
}

// FileBearing reports whether records of the collection may reference a stored file
func (c Collection) FileBearing() bool {
	return c == ResearchPapers || c == Readings
}
