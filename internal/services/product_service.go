package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrProductNotFound is returned when no product has the requested id.
var ErrProductNotFound = errors.New("product not found")

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	publisher  EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are sent.
func NewProductService(
	repo repositories.ProductRepository,
	publisher EventPublisher,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	operations, err := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)
	if err != nil {
		logger.Warn("Failed to create products.operations counter", slog.String("error", err.Error()))
	}

	return &ProductService{
		repo:       repo,
		publisher:  publisher,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
}

// ListProducts retrieves all products.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.fail(ctx, span, "list", err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.succeed(ctx, span, "list")
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProduct",
		trace.WithAttributes(attribute.Int64("product.id", int64(id))))
	defer span.End()

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.fail(ctx, span, "get", err)
		return nil, err
	}
	if product == nil {
		s.fail(ctx, span, "get", ErrProductNotFound)
		return nil, ErrProductNotFound
	}

	s.succeed(ctx, span, "get")
	return product, nil
}

// CreateProduct stores a new product. The assigned ID is written back into
// product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct",
		trace.WithAttributes(attribute.String("product.name", product.Name)))
	defer span.End()

	changes := s.repo.Changes(ctx)
	changes.Add(product)
	if err := changes.Commit(); err != nil {
		s.fail(ctx, span, "create", err)
		return err
	}

	span.SetAttributes(attribute.Int64("product.id", int64(product.ID)))
	s.logger.InfoContext(ctx, "Product created", slog.Uint64("product_id", uint64(product.ID)))
	s.succeed(ctx, span, "create")
	s.publish(ctx, EventProductCreated, product)
	return nil
}

// UpdateProduct replaces the stored product with the same ID. It returns
// ErrProductNotFound when no product has that ID.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct",
		trace.WithAttributes(attribute.Int64("product.id", int64(product.ID))))
	defer span.End()

	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		s.fail(ctx, span, "update", err)
		return err
	}
	if existing == nil {
		s.fail(ctx, span, "update", ErrProductNotFound)
		return ErrProductNotFound
	}

	changes := s.repo.Changes(ctx)
	changes.Update(product)
	if err := changes.Commit(); err != nil {
		s.fail(ctx, span, "update", err)
		return err
	}

	s.logger.InfoContext(ctx, "Product updated", slog.Uint64("product_id", uint64(product.ID)))
	s.succeed(ctx, span, "update")
	s.publish(ctx, EventProductUpdated, product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct",
		trace.WithAttributes(attribute.Int64("product.id", int64(id))))
	defer span.End()

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.fail(ctx, span, "delete", err)
		return err
	}
	if product == nil {
		s.fail(ctx, span, "delete", ErrProductNotFound)
		return ErrProductNotFound
	}

	changes := s.repo.Changes(ctx)
	changes.Remove(product)
	if err := changes.Commit(); err != nil {
		s.fail(ctx, span, "delete", err)
		return err
	}

	s.logger.InfoContext(ctx, "Product deleted", slog.Uint64("product_id", uint64(id)))
	s.succeed(ctx, span, "delete")
	s.publish(ctx, EventProductDeleted, product)
	return nil
}

func (s *ProductService) succeed(ctx context.Context, span trace.Span, operation string) {
	span.SetStatus(codes.Ok, "")
	s.count(ctx, operation, "success")
}

func (s *ProductService) fail(ctx context.Context, span trace.Span, operation string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	result := "failure"
	if errors.Is(err, ErrProductNotFound) {
		result = "not_found"
	} else {
		s.logger.ErrorContext(ctx, "Product operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
	s.count(ctx, operation, result)
}

func (s *ProductService) count(ctx context.Context, operation, result string) {
	if s.operations == nil {
		return
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("result", result),
	))
}

// publish sends a product event. Failures are logged and otherwise ignored:
// the change is already committed.
func (s *ProductService) publish(ctx context.Context, event string, product *models.Product) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(ProductEvent{Event: event, Product: *product, OccurredAt: time.Now().UTC()})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal product event", slog.String("error", err.Error()))
		return
	}
	if err := s.publisher.Publish(event, body); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish product event",
			slog.String("event", event),
			slog.Uint64("product_id", uint64(product.ID)),
			slog.String("error", err.Error()),
		)
	}
}
