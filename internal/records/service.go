// Package records is the data-access layer: per-entity create, update and
// list operations, a generic delete over typed identifiers, and get-by-id
// with lazy file URL resolution.
package records

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"swcommons/internal/logging"
	"swcommons/internal/schema"
	"swcommons/internal/storage"
	"swcommons/internal/store"
	"swcommons/pkg/models"
)

// URLResolver converts a storage id into a fetchable URL
type URLResolver interface {
	ResolveURL(ctx context.Context, storageID string) (string, error)
}

// ListOptions narrows a collection listing
type ListOptions struct {
	// Category keeps only records whose category field equals it
	Category string
}

// Service implements the data-access contract over a persistence gateway
type Service struct {
	gateway  store.Gateway
	registry *schema.Registry
	resolver URLResolver
	validate *validator.Validate
	logger   logging.Logger
}

// NewService wraps gw with schema validation. resolver may be nil, in which
// case file-bearing records are returned without a fileUrl.
func NewService(gw store.Gateway, registry *schema.Registry, resolver URLResolver, logger logging.Logger) *Service {
	if registry == nil {
		registry = schema.Default()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Service{
		gateway:  store.WithSchema(gw, registry),
		registry: registry,
		resolver: resolver,
		validate: newValidator(),
		logger:   logger,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Registry returns the schema registry the service validates against
func (s *Service) Registry() *schema.Registry {
	return s.registry
}

// Create inserts any record kind and returns its typed identifier
func (s *Service) Create(ctx context.Context, rec models.Record) (models.Ref, error) {
	id, err := s.create(ctx, rec)
	if err != nil {
		return nil, err
	}
	return models.NewRef(rec.Collection(), id)
}

// Update replaces every mutable field of the record identified by rec.Ref()
func (s *Service) Update(ctx context.Context, rec models.Record) error {
	return s.update(ctx, rec)
}

// Get fetches one record. An absent id yields *models.NotFoundError.
func (s *Service) Get(ctx context.Context, ref models.Ref) (models.Record, error) {
	if ref == nil || ref.String() == "" {
		return nil, &models.ValidationError{Reason: "record reference is required"}
	}
	c := ref.Collection()
	stored, found, err := s.gateway.GetByID(ctx, c, ref.String())
	if err != nil {
		return nil, s.unknown("get "+string(c), err)
	}
	if !found {
		return nil, &models.NotFoundError{Collection: c, ID: ref.String()}
	}
	rec, err := models.FromDocument(c, stored.ID, stored.Fields)
	if err != nil {
		return nil, s.unknown("decode "+string(c), err)
	}
	s.resolveFile(ctx, rec)
	return rec, nil
}

// List returns every record of c in the collection's feed order
func (s *Service) List(ctx context.Context, c models.Collection, opts ListOptions) ([]models.Record, error) {
	def, err := s.registry.Entity(c)
	if err != nil {
		return nil, &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	if opts.Category != "" {
		if _, ok := def.Field("category"); !ok {
			return nil, &models.ValidationError{Collection: c, Field: "category", Reason: "is not a field of this record"}
		}
	}

	rows, err := s.gateway.QueryAll(ctx, c, store.DefaultOrder(c))
	if err != nil {
		return nil, s.unknown("list "+string(c), err)
	}

	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		if opts.Category != "" && row.Fields["category"] != opts.Category {
			continue
		}
		rec, err := models.FromDocument(c, row.ID, row.Fields)
		if err != nil {
			return nil, s.unknown("decode "+string(c), err)
		}
		s.resolveFile(ctx, rec)
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record identified by ref. Deleting an id that is
// already gone returns *models.NotFoundError.
func (s *Service) Delete(ctx context.Context, ref models.Ref) error {
	var c models.Collection
	switch ref.(type) {
	case models.JobID:
		c = models.Jobs
	case models.EventID:
		c = models.Events
	case models.VolunteerID:
		c = models.VolunteerOpportunities
	case models.InternshipID:
		c = models.Internships
	case models.BlogPostID:
		c = models.BlogPosts
	case models.SalaryGuideID:
		c = models.SalaryGuides
	case models.ReadingID:
		c = models.Readings
	case models.CountryID:
		c = models.Countries
	case models.QualificationID:
		c = models.Qualifications
	case models.ForumPostID:
		c = models.ForumPosts
	case models.EthicsID:
		c = models.EthicsGuidelines
	case models.TheoryID:
		c = models.Theories
	case models.LicensureID:
		c = models.LicensureInfos
	case models.ResearchID:
		c = models.ResearchPapers
	case models.SocialWorkTypeID:
		c = models.SocialWorkTypes
	default:
		return &models.ValidationError{Reason: fmt.Sprintf("unsupported record reference %T", ref)}
	}
	id := ref.String()
	if id == "" {
		return &models.ValidationError{Collection: c, Field: "id", Reason: "is required"}
	}

	if err := s.gateway.Delete(ctx, c, id); err != nil {
		return s.mutationFailed("delete", c, id, err)
	}
	s.logger.Info("Record deleted", map[string]interface{}{
		"collection": string(c),
		"id":         id,
	})
	return nil
}

func (s *Service) create(ctx context.Context, rec models.Record) (string, error) {
	c := rec.Collection()
	def, err := s.registry.Entity(c)
	if err != nil {
		return "", &models.ValidationError{Collection: c, Reason: err.Error()}
	}

	doc, err := models.ToDocument(rec)
	if err != nil {
		return "", s.unknown("encode "+string(c), err)
	}
	doc = shape(def, doc)
	if err := s.check(c, doc); err != nil {
		return "", s.mutationFailed("create", c, "", err)
	}

	id, err := s.gateway.Insert(ctx, c, doc)
	if err != nil {
		return "", s.mutationFailed("create", c, "", err)
	}
	s.logger.Info("Record created", map[string]interface{}{
		"collection": string(c),
		"id":         id,
	})
	return id, nil
}

func (s *Service) update(ctx context.Context, rec models.Record) error {
	c := rec.Collection()
	def, err := s.registry.Entity(c)
	if err != nil {
		return &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	id := rec.Ref().String()
	if id == "" {
		return &models.ValidationError{Collection: c, Field: "id", Reason: "is required"}
	}

	doc, err := models.ToDocument(rec)
	if err != nil {
		return s.unknown("encode "+string(c), err)
	}
	doc = shape(def, doc)
	if err := s.carryOver(ctx, def, id, doc); err != nil {
		return s.mutationFailed("update", c, id, err)
	}
	if err := s.check(c, doc); err != nil {
		return s.mutationFailed("update", c, id, err)
	}

	if err := s.gateway.Patch(ctx, c, id, replacement(def, doc)); err != nil {
		return s.mutationFailed("update", c, id, err)
	}
	s.logger.Info("Record updated", map[string]interface{}{
		"collection": string(c),
		"id":         id,
	})
	return nil
}

// carryOver copies creation-time fields from the stored record into doc
func (s *Service) carryOver(ctx context.Context, def *schema.EntityDefinition, id string, doc models.Document) error {
	var keep []string
	for _, f := range def.Fields {
		if f.KeepOnUpdate {
			keep = append(keep, f.Name)
		}
	}
	if len(keep) == 0 {
		return nil
	}

	stored, found, err := s.gateway.GetByID(ctx, def.Collection, id)
	if err != nil {
		return &models.UnknownError{Op: "load " + string(def.Collection), Err: err}
	}
	if !found {
		return &models.NotFoundError{Collection: def.Collection, ID: id}
	}
	for _, name := range keep {
		if v, ok := stored.Fields[name]; ok {
			doc[name] = v
		} else {
			delete(doc, name)
		}
	}
	return nil
}

// check runs struct-level validation on the typed form of doc
func (s *Service) check(c models.Collection, doc models.Document) error {
	typed, err := models.FromDocument(c, "", doc)
	if err != nil {
		return &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	err = s.validate.Struct(typed)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &models.ValidationError{Collection: c, Reason: err.Error()}
	}
	fe := fieldErrs[0]
	return &models.ValidationError{Collection: c, Field: fieldPath(fe.Namespace()), Reason: reason(fe)}
}

// fieldPath drops the struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}

func (s *Service) resolveFile(ctx context.Context, rec models.Record) {
	switch r := rec.(type) {
	case *models.Reading:
		r.FileURL = s.fileURL(ctx, r.FileStorageID)
	case *models.Research:
		r.FileURL = s.fileURL(ctx, r.FileStorageID)
	}
}

func (s *Service) fileURL(ctx context.Context, storageID *string) *string {
	if storageID == nil || s.resolver == nil {
		return nil
	}
	url, err := s.resolver.ResolveURL(ctx, *storageID)
	if err != nil {
		if !errors.Is(err, storage.ErrObjectNotFound) {
			s.logger.Warn("Failed to resolve file URL", map[string]interface{}{
				"storage_id": *storageID,
				"error":      err.Error(),
			})
		}
		return nil
	}
	return &url
}

func (s *Service) mutationFailed(op string, c models.Collection, id string, err error) error {
	fields := map[string]interface{}{
		"collection": string(c),
		"operation":  op,
		"error":      err.Error(),
	}
	if id != "" {
		fields["id"] = id
	}
	switch models.Classify(err) {
	case models.KindValidation, models.KindNotFound:
		s.logger.Warn("Record mutation rejected", fields)
		return err
	}
	s.logger.Error("Record mutation failed", fields)
	var unknown *models.UnknownError
	if errors.As(err, &unknown) {
		return err
	}
	return &models.UnknownError{Op: op + " " + string(c), Err: err}
}

func (s *Service) unknown(op string, err error) error {
	s.logger.Error("Record query failed", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
	return &models.UnknownError{Op: op, Err: err}
}

// Ping reports whether the underlying gateway is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.gateway.Ping(ctx)
}
