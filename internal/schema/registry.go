package schema

import (
	"fmt"
	"sync"

	"swcommons/pkg/models"
)

// Registry holds entity definitions keyed by collection
type Registry struct {
	mu       sync.RWMutex
	entities map[models.Collection]*EntityDefinition
	order    []models.Collection
}

// NewRegistry returns a registry with every built-in entity kind
func NewRegistry() *Registry {
	r := &Registry{entities: make(map[models.Collection]*EntityDefinition)}
	for _, def := range builtinEntities() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the shared built-in registry
func Default() *Registry {
	defaultOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// Register adds an entity kind. Collections and kind ids must be unique.
func (r *Registry) Register(def *EntityDefinition) error {
	if def == nil || def.Collection == "" {
		return fmt.Errorf("entity definition requires a collection")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[def.Collection]; exists {
		return fmt.Errorf("collection %s already registered", def.Collection)
	}
	for _, other := range r.entities {
		if def.Kind != "" && other.Kind == def.Kind {
			return fmt.Errorf("kind %s already registered for %s", def.Kind, other.Collection)
		}
	}
	r.entities[def.Collection] = def
	r.order = append(r.order, def.Collection)
	return nil
}

// Entity returns the definition for a collection
func (r *Registry) Entity(c models.Collection) (*EntityDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.entities[c]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	return def, nil
}

// ByKind looks an entity up by its submission form category id
func (r *Registry) ByKind(kind string) (*EntityDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.order {
		if def := r.entities[c]; def.Kind == kind {
			return def, nil
		}
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

// Resolve accepts either a collection name or a kind id
func (r *Registry) Resolve(name string) (*EntityDefinition, error) {
	if def, err := r.Entity(models.Collection(name)); err == nil {
		return def, nil
	}
	return r.ByKind(name)
}

// Entities returns all definitions in registration order
func (r *Registry) Entities() []*EntityDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*EntityDefinition, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.entities[c])
	}
	return out
}

func str(name, label string) *FieldDefinition {
	return &FieldDefinition{Name: name, Label: label, Type: FieldTypeString, Required: true}
}

func text(name, label string) *FieldDefinition {
	f := str(name, label)
	f.Multiline = true
	return f
}

func opt(name, label string) *FieldDefinition {
	return &FieldDefinition{Name: name, Label: label, Type: FieldTypeOptional}
}

func enum(name, label string, values ...string) *FieldDefinition {
	return &FieldDefinition{Name: name, Label: label, Type: FieldTypeEnum, Required: true, Values: values, Default: values[0]}
}

func with(f *FieldDefinition, mod func(*FieldDefinition)) *FieldDefinition {
	mod(f)
	return f
}

// EventTypes, LicensureTypes and ResearchTypes are the enumerated literal sets
var (
	EventTypes     = []string{"webinar", "in-person"}
	LicensureTypes = []string{"paragraph", "list", "notice"}
	ResearchTypes  = []string{"Research Paper", "Dissertation", "Policy Brief"}
)

func builtinEntities() []*EntityDefinition {
	return []*EntityDefinition{
		{
			Collection: models.Jobs, Kind: "job", Label: "Job Listing", Group: "Community", Route: "/jobs",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("organization", "Organization"),
				str("location", "Location"),
				opt("salary", "Salary"),
				with(str("type", "Type"), func(f *FieldDefinition) {
					f.Default = "Full-time"
					f.Options = []string{"Full-time", "Part-time", "Contract", "Temporary"}
				}),
				text("description", "Description"),
				with(str("postedAt", "Posted"), func(f *FieldDefinition) {
					f.Auto, f.Hidden, f.KeepOnUpdate = AutoToday, true, true
				}),
			},
		},
		{
			Collection: models.VolunteerOpportunities, Kind: "volunteer", Label: "Volunteer Role", Group: "Community", Route: "/volunteer",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("organization", "Organization"),
				str("commitment", "Commitment"),
				str("location", "Location"),
				text("description", "Description"),
			},
		},
		{
			Collection: models.Events, Kind: "event", Label: "Event / Webinar", Group: "Community", Route: "/events",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("date", "Date"),
				str("location", "Location"),
				text("description", "Description"),
				with(enum("type", "Event Type", EventTypes...), func(f *FieldDefinition) { f.Slot = "eventType" }),
			},
		},
		{
			Collection: models.Internships, Kind: "internship", Label: "Internship", Group: "Community", Route: "/internships",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("organization", "Organization"),
				str("duration", "Duration"),
				with(str("focus", "Focus"), func(f *FieldDefinition) {
					f.Default = "Clinical"
					f.Options = []string{"Clinical", "Macro", "Policy", "School"}
				}),
				with(opt("description", "Description"), func(f *FieldDefinition) { f.Multiline = true }),
			},
		},
		{
			Collection: models.BlogPosts, Kind: "blog", Label: "Blog Entry", Group: "Academic", Route: "/blog",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				with(str("date", "Date"), func(f *FieldDefinition) {
					f.Auto, f.Hidden, f.KeepOnUpdate = AutoToday, true, true
				}),
				str("excerpt", "Excerpt"),
				with(text("content", "Content"), func(f *FieldDefinition) {
					f.Slot, f.RichText = "description", true
				}),
				with(opt("authorId", "Author"), func(f *FieldDefinition) { f.Hidden = true }),
			},
		},
		{
			Collection: models.ForumPosts, Kind: "forum", Label: "Forum Post", Group: "Community", Route: "/forums",
			Fields: []*FieldDefinition{
				with(str("category", "Category"), func(f *FieldDefinition) {
					f.Default = "General Discussion"
					f.Options = []string{"General Discussion", "Case Consultation", "Career Advice", "Policy & Advocacy"}
				}),
				str("title", "Title"),
				with(text("content", "Content"), func(f *FieldDefinition) { f.Slot = "description" }),
				with(str("author", "Author"), func(f *FieldDefinition) { f.KeepOnUpdate = true }),
				with(str("postedAt", "Posted"), func(f *FieldDefinition) {
					f.Auto, f.Hidden, f.KeepOnUpdate = AutoToday, true, true
				}),
			},
		},
		{
			Collection: models.SalaryGuides, Kind: "salary", Label: "Salary Guide", Group: "Directory", Route: "/salary",
			Fields: []*FieldDefinition{
				with(str("role", "Role"), func(f *FieldDefinition) { f.Slot = "title" }),
				with(str("experienceLevel", "Experience Level"), func(f *FieldDefinition) {
					f.Default = "Entry Level"
					f.Options = []string{"Entry Level", "Mid Level", "Senior Level", "Management"}
				}),
				with(str("range", "Range"), func(f *FieldDefinition) { f.Fallback = "salary" }),
				with(opt("category", "Category"), func(f *FieldDefinition) { f.Slot = "focus" }),
			},
		},
		{
			Collection: models.Readings, Kind: "reading", Label: "Recommended Book", Group: "Academic", Route: "/reading",
			DetailPath: "/reading", FileField: "fileStorageId",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("author", "Author"),
				str("year", "Year"),
				text("description", "Description"),
				opt("link", "Link"),
				with(opt("fileStorageId", "File"), func(f *FieldDefinition) { f.Slot = "file" }),
			},
		},
		{
			Collection: models.Countries, Kind: "country", Label: "Country Regulator", Group: "Directory", Route: "/regulated-countries",
			Fields: []*FieldDefinition{
				with(str("name", "Country"), func(f *FieldDefinition) { f.Slot, f.Lookup = "title", "country" }),
				with(str("region", "Region"), func(f *FieldDefinition) {
					f.Default = "Europe"
					f.Options = Regions
				}),
				{
					Name: "regulators", Label: "Regulators", Type: FieldTypeObjectList,
					Fields: []*FieldDefinition{str("name", "Regulator Name"), opt("url", "Website")},
				},
			},
		},
		{
			Collection: models.Qualifications, Kind: "qualification", Label: "Career Route", Group: "Academic", Route: "/qualifications",
			Fields: []*FieldDefinition{
				with(str("level", "Level"), func(f *FieldDefinition) { f.Slot = "title" }),
				str("duration", "Duration"),
				text("description", "Description"),
				text("nextSteps", "Next Steps"),
			},
		},
		{
			Collection: models.SocialWorkTypes, Kind: "careertypes", Label: "SW Roles", Group: "Academic", Route: "/career-paths",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				text("description", "Description"),
				with(str("typicalWorkplaces", "Typical Workplaces"), func(f *FieldDefinition) { f.Slot = "workplaces" }),
			},
		},
		{
			Collection: models.EthicsGuidelines, Kind: "ethics", Label: "Ethics Guideline", Group: "Academic", Route: "/ethics",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				with(text("content", "Content"), func(f *FieldDefinition) { f.Slot = "description" }),
				with(opt("category", "Category"), func(f *FieldDefinition) { f.Default, f.Hidden = "General", true }),
			},
		},
		{
			Collection: models.Theories, Kind: "theory", Label: "Theoretical Framework", Group: "Academic", Route: "/theory",
			Fields: []*FieldDefinition{
				with(str("name", "Name"), func(f *FieldDefinition) { f.Slot = "title" }),
				text("description", "Description"),
			},
		},
		{
			Collection: models.LicensureInfos, Kind: "licensure", Label: "Licensure Info", Group: "Directory", Route: "/licensure",
			Fields: []*FieldDefinition{
				with(str("category", "Category"), func(f *FieldDefinition) { f.Slot = "title" }),
				with(text("content", "Content"), func(f *FieldDefinition) { f.Slot = "description" }),
				with(enum("type", "Display", LicensureTypes...), func(f *FieldDefinition) { f.Slot = "licensureType" }),
			},
		},
		{
			Collection: models.ResearchPapers, Kind: "research", Label: "Research / Paper", Group: "Academic", Route: "/research",
			DetailPath: "/research", FileField: "fileStorageId",
			Fields: []*FieldDefinition{
				str("title", "Title"),
				str("author", "Author"),
				with(str("year", "Year"), func(f *FieldDefinition) { f.Auto = AutoCurrentYear }),
				with(enum("type", "Type", ResearchTypes...), func(f *FieldDefinition) { f.Slot = "researchType" }),
				text("description", "Abstract"),
				with(opt("fileStorageId", "File"), func(f *FieldDefinition) { f.Slot = "file" }),
			},
		},
	}
}
