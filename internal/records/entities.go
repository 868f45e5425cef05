package records

import (
	"context"
	"fmt"

	"swcommons/pkg/models"
)

// listAs narrows a generic listing to one concrete entity type
func listAs[T any, P interface {
	*T
	models.Record
}](ctx context.Context, s *Service, c models.Collection, opts ListOptions) ([]T, error) {
	recs, err := s.List(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		p, ok := rec.(P)
		if !ok {
			return nil, &models.UnknownError{Op: "list " + string(c), Err: fmt.Errorf("unexpected record type %T", rec)}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Service) CreateJob(ctx context.Context, r models.Job) (models.JobID, error) {
	id, err := s.create(ctx, &r)
	return models.JobID(id), err
}

func (s *Service) UpdateJob(ctx context.Context, r models.Job) error {
	return s.update(ctx, &r)
}

func (s *Service) ListJobs(ctx context.Context) ([]models.Job, error) {
	return listAs[models.Job](ctx, s, models.Jobs, ListOptions{})
}

func (s *Service) CreateEvent(ctx context.Context, r models.Event) (models.EventID, error) {
	id, err := s.create(ctx, &r)
	return models.EventID(id), err
}

func (s *Service) UpdateEvent(ctx context.Context, r models.Event) error {
	return s.update(ctx, &r)
}

func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	return listAs[models.Event](ctx, s, models.Events, ListOptions{})
}

func (s *Service) CreateVolunteerOpportunity(ctx context.Context, r models.VolunteerOpportunity) (models.VolunteerID, error) {
	id, err := s.create(ctx, &r)
	return models.VolunteerID(id), err
}

func (s *Service) UpdateVolunteerOpportunity(ctx context.Context, r models.VolunteerOpportunity) error {
	return s.update(ctx, &r)
}

func (s *Service) ListVolunteerOpportunities(ctx context.Context) ([]models.VolunteerOpportunity, error) {
	return listAs[models.VolunteerOpportunity](ctx, s, models.VolunteerOpportunities, ListOptions{})
}

func (s *Service) CreateInternship(ctx context.Context, r models.Internship) (models.InternshipID, error) {
	id, err := s.create(ctx, &r)
	return models.InternshipID(id), err
}

func (s *Service) UpdateInternship(ctx context.Context, r models.Internship) error {
	return s.update(ctx, &r)
}

func (s *Service) ListInternships(ctx context.Context) ([]models.Internship, error) {
	return listAs[models.Internship](ctx, s, models.Internships, ListOptions{})
}

func (s *Service) CreateBlogPost(ctx context.Context, r models.BlogPost) (models.BlogPostID, error) {
	id, err := s.create(ctx, &r)
	return models.BlogPostID(id), err
}

func (s *Service) UpdateBlogPost(ctx context.Context, r models.BlogPost) error {
	return s.update(ctx, &r)
}

func (s *Service) ListBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	return listAs[models.BlogPost](ctx, s, models.BlogPosts, ListOptions{})
}

func (s *Service) CreateSalaryGuide(ctx context.Context, r models.SalaryGuide) (models.SalaryGuideID, error) {
	id, err := s.create(ctx, &r)
	return models.SalaryGuideID(id), err
}

func (s *Service) UpdateSalaryGuide(ctx context.Context, r models.SalaryGuide) error {
	return s.update(ctx, &r)
}

func (s *Service) ListSalaryGuides(ctx context.Context) ([]models.SalaryGuide, error) {
	return listAs[models.SalaryGuide](ctx, s, models.SalaryGuides, ListOptions{})
}

func (s *Service) CreateReading(ctx context.Context, r models.Reading) (models.ReadingID, error) {
	id, err := s.create(ctx, &r)
	return models.ReadingID(id), err
}

func (s *Service) UpdateReading(ctx context.Context, r models.Reading) error {
	return s.update(ctx, &r)
}

func (s *Service) ListReadings(ctx context.Context) ([]models.Reading, error) {
	return listAs[models.Reading](ctx, s, models.Readings, ListOptions{})
}

func (s *Service) CreateCountry(ctx context.Context, r models.Country) (models.CountryID, error) {
	id, err := s.create(ctx, &r)
	return models.CountryID(id), err
}

func (s *Service) UpdateCountry(ctx context.Context, r models.Country) error {
	return s.update(ctx, &r)
}

func (s *Service) ListCountries(ctx context.Context) ([]models.Country, error) {
	return listAs[models.Country](ctx, s, models.Countries, ListOptions{})
}

func (s *Service) CreateQualification(ctx context.Context, r models.Qualification) (models.QualificationID, error) {
	id, err := s.create(ctx, &r)
	return models.QualificationID(id), err
}

func (s *Service) UpdateQualification(ctx context.Context, r models.Qualification) error {
	return s.update(ctx, &r)
}

func (s *Service) ListQualifications(ctx context.Context) ([]models.Qualification, error) {
	return listAs[models.Qualification](ctx, s, models.Qualifications, ListOptions{})
}

func (s *Service) CreateForumPost(ctx context.Context, r models.ForumPost) (models.ForumPostID, error) {
	id, err := s.create(ctx, &r)
	return models.ForumPostID(id), err
}

func (s *Service) UpdateForumPost(ctx context.Context, r models.ForumPost) error {
	return s.update(ctx, &r)
}

// ListForumPosts returns posts newest first, restricted to category when it is non-empty
func (s *Service) ListForumPosts(ctx context.Context, category string) ([]models.ForumPost, error) {
	return listAs[models.ForumPost](ctx, s, models.ForumPosts, ListOptions{Category: category})
}

func (s *Service) CreateEthicsGuideline(ctx context.Context, r models.EthicsGuideline) (models.EthicsID, error) {
	id, err := s.create(ctx, &r)
	return models.EthicsID(id), err
}

func (s *Service) UpdateEthicsGuideline(ctx context.Context, r models.EthicsGuideline) error {
	return s.update(ctx, &r)
}

func (s *Service) ListEthicsGuidelines(ctx context.Context) ([]models.EthicsGuideline, error) {
	return listAs[models.EthicsGuideline](ctx, s, models.EthicsGuidelines, ListOptions{})
}

func (s *Service) CreateTheory(ctx context.Context, r models.Theory) (models.TheoryID, error) {
	id, err := s.create(ctx, &r)
	return models.TheoryID(id), err
}

func (s *Service) UpdateTheory(ctx context.Context, r models.Theory) error {
	return s.update(ctx, &r)
}

func (s *Service) ListTheories(ctx context.Context) ([]models.Theory, error) {
	return listAs[models.Theory](ctx, s, models.Theories, ListOptions{})
}

func (s *Service) CreateLicensureInfo(ctx context.Context, r models.LicensureInfo) (models.LicensureID, error) {
	id, err := s.create(ctx, &r)
	return models.LicensureID(id), err
}

func (s *Service) UpdateLicensureInfo(ctx context.Context, r models.LicensureInfo) error {
	return s.update(ctx, &r)
}

func (s *Service) ListLicensureInfos(ctx context.Context) ([]models.LicensureInfo, error) {
	return listAs[models.LicensureInfo](ctx, s, models.LicensureInfos, ListOptions{})
}

func (s *Service) CreateResearch(ctx context.Context, r models.Research) (models.ResearchID, error) {
	id, err := s.create(ctx, &r)
	return models.ResearchID(id), err
}

func (s *Service) UpdateResearch(ctx context.Context, r models.Research) error {
	return s.update(ctx, &r)
}

func (s *Service) ListResearch(ctx context.Context) ([]models.Research, error) {
	return listAs[models.Research](ctx, s, models.ResearchPapers, ListOptions{})
}

func (s *Service) CreateSocialWorkType(ctx context.Context, r models.SocialWorkType) (models.SocialWorkTypeID, error) {
	id, err := s.create(ctx, &r)
	return models.SocialWorkTypeID(id), err
}

func (s *Service) UpdateSocialWorkType(ctx context.Context, r models.SocialWorkType) error {
	return s.update(ctx, &r)
}

func (s *Service) ListSocialWorkTypes(ctx context.Context) ([]models.SocialWorkType, error) {
	return listAs[models.SocialWorkType](ctx, s, models.SocialWorkTypes, ListOptions{})
}

// GetResearch fetches a research entry with its file URL resolved
func (s *Service) GetResearch(ctx context.Context, id models.ResearchID) (models.Research, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return models.Research{}, err
	}
	return *rec.(*models.Research), nil
}

// GetReading fetches a recommended reading with its file URL resolved
func (s *Service) GetReading(ctx context.Context, id models.ReadingID) (models.Reading, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return models.Reading{}, err
	}
	return *rec.(*models.Reading), nil
}
