package views

import (
	"sort"
	"strings"

	"swcommons/pkg/models"
)

// lens is how one collection is searched and narrowed on its browse screen
type lens struct {
	// search holds field names matched by the free-text filter; a dotted
	// name reaches into an object list ("regulators.name")
	search []string
	// category is the field of the equality filter, if any
	category string
	// serverCategory passes the category to the query instead of filtering locally
	serverCategory bool
}

var lenses = map[models.Collection]lens{
	models.Jobs:                   {search: []string{"title", "location"}, category: "type"},
	models.Events:                 {search: []string{"title", "description"}, category: "type"},
	models.VolunteerOpportunities: {search: []string{"title", "description", "organization"}},
	models.Internships:            {search: []string{"title", "organization"}, category: "focus"},
	models.BlogPosts:              {search: []string{"title", "excerpt"}},
	models.SalaryGuides:           {category: "experienceLevel"},
	models.Readings:               {search: []string{"title", "author"}},
	models.Countries:              {search: []string{"name", "regulators.name"}, category: "region"},
	models.ForumPosts:             {search: []string{"title", "content"}, category: "category", serverCategory: true},
	models.ResearchPapers:         {search: []string{"title", "author", "description"}, category: "type"},
}

func lensFor(c models.Collection) lens {
	return lenses[c]
}

// matches reports whether any search field of doc contains needle, case-insensitively
func (l lens) matches(doc models.Document, needle string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, field := range l.search {
		for _, value := range fieldValues(doc, field) {
			if strings.Contains(strings.ToLower(value), needle) {
				return true
			}
		}
	}
	return false
}

func fieldValues(doc models.Document, path string) []string {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		if s, ok := doc[head].(string); ok {
			return []string{s}
		}
		return nil
	}
	items, _ := doc[head].([]interface{})
	var out []string
	for _, item := range items {
		if entry, ok := item.(map[string]interface{}); ok {
			out = append(out, fieldValues(models.Document(entry), rest)...)
		}
	}
	return out
}

// distinct returns the sorted set of non-blank values of field across docs
func distinct(docs []models.Document, field string) []string {
	seen := map[string]bool{}
	var out []string
	for _, doc := range docs {
		s, _ := doc[field].(string)
		if strings.TrimSpace(s) == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
