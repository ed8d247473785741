package repository

import "context"

type CustomerStore interface {
	Create(ctx context.Context, c Customer) (Customer, error)
	GetByID(ctx context.Context, id int64) (Customer, error)
	List(ctx context.Context, params ListParams) ([]Customer, int, error)
	Update(ctx context.Context, id int64, p UpdateParams) (Customer, error)
	Delete(ctx context.Context, id int64) error
}

type DocumentStore interface {
	CreateDocument(ctx context.Context, d Document) (Document, error)
	ListDocuments(ctx context.Context, customerID int64) ([]Document, error)
	GetDocument(ctx context.Context, customerID, documentID int64) (Document, error)
	DeleteDocument(ctx context.Context, customerID, documentID int64) error
}

type CustomerRepository interface {
	CustomerStore
	DocumentStore
}

var _ CustomerRepository = (*Repository)(nil)
