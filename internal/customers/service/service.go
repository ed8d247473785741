package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/adapters/storage"
	"dealership_crm_backend/internal/customers/repository"
	"dealership_crm_backend/internal/customers/transport"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/phone"
	"dealership_crm_backend/platform/sanitize"
)

const (
	msgCustomerNotFound = "customer not found"
	msgDocumentNotFound = "document not found"
	msgStorageDisabled  = "document storage is not configured"

	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo    repository.CustomerRepository
	storage storage.StorageService
	bucket  string
	phones  *phone.Normalizer
	log     *logger.Logger
}

// New builds the service. store may be nil, in which case document
// operations fail with a bad request.
func New(repo repository.CustomerRepository, store storage.StorageService, bucket string, phones *phone.Normalizer, log *logger.Logger) *Service {
	return &Service{repo: repo, storage: store, bucket: bucket, phones: phones, log: log}
}

func (s *Service) Create(ctx context.Context, actor access.Actor, req transport.CreateCustomerRequest) (transport.CustomerResponse, error) {
	name := sanitize.Line(req.Name)
	if name == "" {
		return transport.CustomerResponse{}, apperr.Validation("name is required")
	}
	phoneNumber, err := s.normalizePhone(req.Phone)
	if err != nil {
		return transport.CustomerResponse{}, err
	}

	createdBy := actor.UserID
	c, err := s.repo.Create(ctx, repository.Customer{
		Name:        name,
		Email:       normalizeEmail(req.Email),
		Phone:       phoneNumber,
		Nationality: sanitize.TextPtr(req.Nationality),
		Notes:       sanitize.TextPtr(req.Notes),
		CreatedBy:   &createdBy,
	})
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	return toCustomerResponse(c), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (transport.CustomerResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.CustomerResponse{}, translate(err)
	}
	return toCustomerResponse(c), nil
}

func (s *Service) List(ctx context.Context, req transport.ListCustomersRequest) (transport.CustomerListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	switch {
	case pageSize < 1:
		pageSize = defaultPageSize
	case pageSize > maxPageSize:
		pageSize = maxPageSize
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Search: sanitize.Line(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return transport.CustomerListResponse{}, err
	}

	out := make([]transport.CustomerResponse, len(items))
	for i, c := range items {
		out[i] = toCustomerResponse(c)
	}
	return transport.CustomerListResponse{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}, nil
}

func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateCustomerRequest) (transport.CustomerResponse, error) {
	params := repository.UpdateParams{
		Email:       normalizeEmail(req.Email),
		Nationality: sanitize.TextPtr(req.Nationality),
		Notes:       sanitize.TextPtr(req.Notes),
	}
	if req.Name != nil {
		name := sanitize.Line(*req.Name)
		if name == "" {
			return transport.CustomerResponse{}, apperr.Validation("name cannot be blank")
		}
		params.Name = &name
	}
	phoneNumber, err := s.normalizePhone(req.Phone)
	if err != nil {
		return transport.CustomerResponse{}, err
	}
	params.Phone = phoneNumber

	c, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.CustomerResponse{}, translate(err)
	}
	return toCustomerResponse(c), nil
}

// Delete removes the customer row first and then its stored objects.
// Object cleanup failures are logged only.
func (s *Service) Delete(ctx context.Context, id int64) error {
	docs, err := s.repo.ListDocuments(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	if s.storage == nil {
		return nil
	}
	for _, d := range docs {
		if err := s.storage.DeleteObject(ctx, s.bucket, d.FileKey); err != nil {
			s.log.Warn("delete customer document object failed", "customerId", id, "fileKey", d.FileKey, "error", err)
		}
	}
	return nil
}

// PresignUpload hands out an upload URL under the customer's folder. The
// upload is not recorded until RegisterDocument is called.
func (s *Service) PresignUpload(ctx context.Context, customerID int64, req transport.PresignDocumentRequest) (transport.PresignedUploadResponse, error) {
	if s.storage == nil {
		return transport.PresignedUploadResponse{}, apperr.BadRequest(msgStorageDisabled)
	}
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return transport.PresignedUploadResponse{}, translate(err)
	}
	if err := s.storage.ValidateContentType(req.ContentType); err != nil {
		return transport.PresignedUploadResponse{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(req.SizeBytes); err != nil {
		return transport.PresignedUploadResponse{}, apperr.Validation(err.Error())
	}

	presigned, err := s.storage.GenerateUploadURL(ctx, s.bucket, customerFolder(customerID), req.FileName, req.ContentType, req.SizeBytes)
	if err != nil {
		return transport.PresignedUploadResponse{}, err
	}
	return transport.PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt,
	}, nil
}

// RegisterDocument records an object uploaded through a presigned URL. The
// stored size comes from object storage, not from the client.
func (s *Service) RegisterDocument(ctx context.Context, actor access.Actor, customerID int64, req transport.RegisterDocumentRequest) (transport.DocumentResponse, error) {
	if s.storage == nil {
		return transport.DocumentResponse{}, apperr.BadRequest(msgStorageDisabled)
	}
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return transport.DocumentResponse{}, translate(err)
	}
	if !strings.HasPrefix(req.FileKey, customerFolder(customerID)+"/") {
		return transport.DocumentResponse{}, apperr.Validation("file key does not belong to this customer")
	}
	if err := s.storage.ValidateContentType(req.ContentType); err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}

	info, err := s.storage.StatObject(ctx, s.bucket, req.FileKey)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return transport.DocumentResponse{}, apperr.Validation("file has not been uploaded")
	}
	if err != nil {
		return transport.DocumentResponse{}, err
	}
	if err := s.storage.ValidateFileSize(info.Size); err != nil {
		return transport.DocumentResponse{}, apperr.Validation(err.Error())
	}

	uploadedBy := actor.UserID
	doc, err := s.repo.CreateDocument(ctx, repository.Document{
		CustomerID:  customerID,
		FileKey:     req.FileKey,
		FileName:    sanitize.Line(req.FileName),
		ContentType: storage.NormalizeContentType(req.ContentType),
		SizeBytes:   info.Size,
		UploadedBy:  &uploadedBy,
	})
	if errors.Is(err, repository.ErrDuplicateFileKey) {
		return transport.DocumentResponse{}, apperr.Conflict(err.Error())
	}
	if err != nil {
		return transport.DocumentResponse{}, err
	}
	return toDocumentResponse(doc), nil
}

func (s *Service) ListDocuments(ctx context.Context, customerID int64) ([]transport.DocumentResponse, error) {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return nil, translate(err)
	}
	docs, err := s.repo.ListDocuments(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]transport.DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = toDocumentResponse(d)
	}
	return out, nil
}

func (s *Service) DownloadURL(ctx context.Context, customerID, documentID int64) (transport.DownloadURLResponse, error) {
	if s.storage == nil {
		return transport.DownloadURLResponse{}, apperr.BadRequest(msgStorageDisabled)
	}
	doc, err := s.repo.GetDocument(ctx, customerID, documentID)
	if err != nil {
		return transport.DownloadURLResponse{}, translate(err)
	}
	presigned, err := s.storage.GenerateDownloadURL(ctx, s.bucket, doc.FileKey, doc.FileName)
	if err != nil {
		return transport.DownloadURLResponse{}, err
	}
	return transport.DownloadURLResponse{DownloadURL: presigned.URL, ExpiresAt: presigned.ExpiresAt}, nil
}

// DeleteDocument removes the object, then the row.
func (s *Service) DeleteDocument(ctx context.Context, customerID, documentID int64) error {
	if s.storage == nil {
		return apperr.BadRequest(msgStorageDisabled)
	}
	doc, err := s.repo.GetDocument(ctx, customerID, documentID)
	if err != nil {
		return translate(err)
	}
	if err := s.storage.DeleteObject(ctx, s.bucket, doc.FileKey); err != nil {
		return err
	}
	return translate(s.repo.DeleteDocument(ctx, customerID, documentID))
}

func (s *Service) normalizePhone(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	e164, err := s.phones.E164(*raw)
	if errors.Is(err, phone.ErrInvalid) {
		return nil, apperr.Validation("invalid phone number").WithDetails(map[string]string{"phone": "e164"})
	}
	if err != nil || e164 == "" {
		return nil, err
	}
	return &e164, nil
}

func normalizeEmail(raw *string) *string {
	if raw == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(*raw))
	if email == "" {
		return nil
	}
	return &email
}

func customerFolder(customerID int64) string {
	return fmt.Sprintf("customers/%d", customerID)
}

func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(msgCustomerNotFound)
	case errors.Is(err, repository.ErrDocumentNotFound):
		return apperr.NotFound(msgDocumentNotFound)
	default:
		return err
	}
}

func toCustomerResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Nationality: c.Nationality,
		Notes:       c.Notes,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toDocumentResponse(d repository.Document) transport.DocumentResponse {
	return transport.DocumentResponse{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		FileKey:     d.FileKey,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   d.CreatedAt,
	}
}
