package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/adapters/storage"
	"dealership_crm_backend/internal/customers/repository"
	"dealership_crm_backend/internal/customers/transport"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/phone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	customers map[int64]repository.Customer
	docs      map[int64]repository.Document
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{customers: map[int64]repository.Customer{}, docs: map[int64]repository.Document{}}
}

func (r *memoryRepo) Create(_ context.Context, c repository.Customer) (repository.Customer, error) {
	r.nextID++
	c.ID = r.nextID
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (repository.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return repository.Customer{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) List(_ context.Context, p repository.ListParams) ([]repository.Customer, int, error) {
	var out []repository.Customer
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.customers[id]; ok && strings.Contains(c.Name, p.Search) {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (r *memoryRepo) Update(_ context.Context, id int64, p repository.UpdateParams) (repository.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return c, repository.ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Phone != nil {
		c.Phone = p.Phone
	}
	r.customers[id] = c
	return c, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.customers, id)
	for k, d := range r.docs {
		if d.CustomerID == id {
			delete(r.docs, k)
		}
	}
	return nil
}

func (r *memoryRepo) CreateDocument(_ context.Context, d repository.Document) (repository.Document, error) {
	for _, existing := range r.docs {
		if existing.FileKey == d.FileKey {
			return repository.Document{}, repository.ErrDuplicateFileKey
		}
	}
	d.ID = int64(len(r.docs) + 1)
	r.docs[d.ID] = d
	return d, nil
}

func (r *memoryRepo) ListDocuments(_ context.Context, customerID int64) ([]repository.Document, error) {
	var out []repository.Document
	for _, d := range r.docs {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetDocument(_ context.Context, customerID, documentID int64) (repository.Document, error) {
	d, ok := r.docs[documentID]
	if !ok || d.CustomerID != customerID {
		return repository.Document{}, repository.ErrDocumentNotFound
	}
	return d, nil
}

func (r *memoryRepo) DeleteDocument(_ context.Context, customerID, documentID int64) error {
	if _, err := r.GetDocument(context.Background(), customerID, documentID); err != nil {
		return err
	}
	delete(r.docs, documentID)
	return nil
}

// fakeStorage keeps objects in a map and applies the real validation rules.
type fakeStorage struct {
	objects map[string]int64
	deleted []string
}

func (f *fakeStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	key := folder + "/" + fileName
	return &storage.PresignedURL{URL: "https://minio.test/" + bucket + "/" + key, FileKey: key, ExpiresAt: time.Now().Add(storage.PresignedURLTTL)}, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey, _ string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://minio.test/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (f *fakeStorage) StatObject(_ context.Context, _, fileKey string) (storage.ObjectInfo, error) {
	size, ok := f.objects[fileKey]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Size: size}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _, fileKey string) error {
	f.deleted = append(f.deleted, fileKey)
	delete(f.objects, fileKey)
	return nil
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (f *fakeStorage) ValidateContentType(ct string) error { return storage.ValidateContentType(ct) }

func (f *fakeStorage) ValidateFileSize(n int64) error { return storage.ValidateFileSize(n, 1024) }

var seller = access.Actor{UserID: 2, Role: access.RoleSales}

func newService(t *testing.T) (*Service, *memoryRepo, *fakeStorage) {
	t.Helper()
	repo := newMemoryRepo()
	store := &fakeStorage{objects: map[string]int64{}}
	return New(repo, store, "customer-documents", phone.NewNormalizer("AE"), logger.Discard()), repo, store
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesContactDetails(t *testing.T) {
	svc, _, _ := newService(t)

	c, err := svc.Create(context.Background(), seller, transport.CreateCustomerRequest{
		Name:  "  Omar   Haddad ",
		Email: strPtr(" Omar@Example.COM "),
		Phone: strPtr("050 123 4567"),
		Notes: strPtr("   "),
	})
	require.NoError(t, err)

	assert.Equal(t, "Omar Haddad", c.Name)
	assert.Equal(t, "omar@example.com", *c.Email)
	assert.Equal(t, "+971501234567", *c.Phone)
	assert.Nil(t, c.Notes)
	assert.Equal(t, int64(2), *c.CreatedBy)
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), seller, transport.CreateCustomerRequest{Name: "Omar", Phone: strPtr("12")})

	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUnknownCustomerIsNotFound(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 99)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.PresignUpload(ctx, 99, transport.PresignDocumentRequest{FileName: "id.pdf", ContentType: "application/pdf", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.True(t, apperr.Is(svc.Delete(ctx, 99), apperr.KindNotFound))
}

func TestPresignValidatesBeforeSigning(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, seller, transport.CreateCustomerRequest{Name: "Omar"})
	require.NoError(t, err)

	_, err = svc.PresignUpload(ctx, c.ID, transport.PresignDocumentRequest{FileName: "clip.mp4", ContentType: "video/mp4", SizeBytes: 10})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.PresignUpload(ctx, c.ID, transport.PresignDocumentRequest{FileName: "id.pdf", ContentType: "application/pdf", SizeBytes: 4096})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	resp, err := svc.PresignUpload(ctx, c.ID, transport.PresignDocumentRequest{FileName: "id.pdf", ContentType: "application/pdf", SizeBytes: 512})
	require.NoError(t, err)
	assert.Equal(t, "customers/1/id.pdf", resp.FileKey)
	assert.Contains(t, resp.UploadURL, "customer-documents")
}

func TestDocumentLifecycle(t *testing.T) {
	svc, repo, store := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, seller, transport.CreateCustomerRequest{Name: "Omar"})
	require.NoError(t, err)

	req := transport.RegisterDocumentRequest{FileKey: "customers/1/passport.pdf", FileName: "passport.pdf", ContentType: "application/pdf"}

	_, err = svc.RegisterDocument(ctx, seller, c.ID, req)
	assert.True(t, apperr.Is(err, apperr.KindValidation), "object must exist before registering")

	store.objects[req.FileKey] = 300
	doc, err := svc.RegisterDocument(ctx, seller, c.ID, req)
	require.NoError(t, err)
	assert.Equal(t, int64(300), doc.SizeBytes)

	_, err = svc.RegisterDocument(ctx, seller, c.ID, req)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	docs, err := svc.ListDocuments(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	dl, err := svc.DownloadURL(ctx, c.ID, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, dl.DownloadURL, req.FileKey)

	require.NoError(t, svc.DeleteDocument(ctx, c.ID, doc.ID))
	assert.Equal(t, []string{req.FileKey}, store.deleted)
	assert.Empty(t, repo.docs)
}

func TestRegisterRejectsForeignKey(t *testing.T) {
	svc, _, store := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, seller, transport.CreateCustomerRequest{Name: "Omar"})
	require.NoError(t, err)
	store.objects["customers/12/passport.pdf"] = 100

	_, err = svc.RegisterDocument(ctx, seller, c.ID, transport.RegisterDocumentRequest{
		FileKey: "customers/12/passport.pdf", FileName: "passport.pdf", ContentType: "application/pdf",
	})

	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeleteCustomerRemovesObjects(t *testing.T) {
	svc, repo, store := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, seller, transport.CreateCustomerRequest{Name: "Omar"})
	require.NoError(t, err)
	store.objects["customers/1/a.pdf"] = 10
	_, err = svc.RegisterDocument(ctx, seller, c.ID, transport.RegisterDocumentRequest{FileKey: "customers/1/a.pdf", FileName: "a.pdf", ContentType: "application/pdf"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID))

	assert.Empty(t, repo.customers)
	assert.Equal(t, []string{"customers/1/a.pdf"}, store.deleted)
}

func TestDocumentsWithoutStorage(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, nil, "", phone.NewNormalizer("AE"), logger.Discard())
	ctx := context.Background()
	c, err := svc.Create(ctx, seller, transport.CreateCustomerRequest{Name: "Omar"})
	require.NoError(t, err)

	_, err = svc.PresignUpload(ctx, c.ID, transport.PresignDocumentRequest{FileName: "a.pdf", ContentType: "application/pdf", SizeBytes: 1})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.NoError(t, svc.Delete(ctx, c.ID))
}

func TestListClampsPageSize(t *testing.T) {
	svc, _, _ := newService(t)

	resp, err := svc.List(context.Background(), transport.ListCustomersRequest{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.PageSize)
	assert.Equal(t, 1, resp.Page)
}
