package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

// FirestoreBackend stores each identity's projects under
// artifacts/{appID}/users/{uid}/projects.
type FirestoreBackend struct {
	client *firestore.Client
	appID  string
}

func NewFirestoreBackend(client *firestore.Client, appID string) *FirestoreBackend {
	return &FirestoreBackend{client: client, appID: appID}
}

func (b *FirestoreBackend) Name() string { return "firestore" }

func (b *FirestoreBackend) ForUser(uid string) Store {
	return &firestoreStore{client: b.client, col: projectsCollection(b.client, b.appID, uid)}
}

// Ping reads at most one document from the tenant root to confirm the client
// can reach Firestore with its credentials.
func (b *FirestoreBackend) Ping(ctx context.Context) error {
	_, err := b.client.Collection("artifacts").Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

func projectsCollection(client *firestore.Client, appID, uid string) *firestore.CollectionRef {
	return client.Collection("artifacts").Doc(appID).Collection("users").Doc(uid).Collection("projects")
}

type firestoreStore struct {
	client *firestore.Client
	col    *firestore.CollectionRef
}

func (s *firestoreStore) Subscribe(ctx context.Context) (*Subscription, error) {
	return startSubscription(ctx, func(e *emitter) {
		it := s.col.OrderBy(firestore.DocumentID, firestore.Asc).Snapshots(e.ctx)
		defer it.Stop()

		for {
			qs, err := it.Next()
			if err != nil {
				e.fail(fmt.Errorf("firestore listen: %w", err))
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				e.fail(fmt.Errorf("firestore snapshot: %w", err))
				return
			}
			projects, err := decodeSnapshots(docs)
			if err != nil {
				e.fail(err)
				return
			}
			if !e.emit(projects) {
				return
			}
		}
	}), nil
}

func (s *firestoreStore) Create(ctx context.Context, draft domain.Project) (Ack, error) {
	ref, _, err := s.col.Add(ctx, draft.Normalize())
	if err != nil {
		return Ack{}, fmt.Errorf("firestore create: %w", err)
	}
	return Ack{ID: ref.ID}, nil
}

func (s *firestoreStore) Replace(ctx context.Context, id string, p domain.Project) (Ack, error) {
	ref := s.col.Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("replace %s: %w", id, domain.ErrNotFound)
			}
			return err
		}
		return tx.Set(ref, p.Normalize())
	})
	if err != nil {
		return Ack{}, wrapFirestore("replace", err)
	}
	return Ack{ID: id}, nil
}

func (s *firestoreStore) Remove(ctx context.Context, id string) (Ack, error) {
	ref := s.col.Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docs, err := tx.Documents(s.col).GetAll()
		if err != nil {
			return err
		}
		if !containsDoc(docs, id) {
			return fmt.Errorf("remove %s: %w", id, domain.ErrNotFound)
		}
		if len(docs) <= 1 {
			return domain.ErrLastProject
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return Ack{}, wrapFirestore("remove", err)
	}
	return Ack{ID: id}, nil
}

func decodeSnapshots(docs []*firestore.DocumentSnapshot) ([]domain.Project, error) {
	projects := make([]domain.Project, 0, len(docs))
	for _, doc := range docs {
		var p domain.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		projects = append(projects, p)
	}
	return sortByID(projects), nil
}

func containsDoc(docs []*firestore.DocumentSnapshot, id string) bool {
	for _, d := range docs {
		if d.Ref.ID == id {
			return true
		}
	}
	return false
}

// wrapFirestore leaves domain sentinels untouched and tags everything else
// with the failing operation.
func wrapFirestore(op string, err error) error {
	if isDomainErr(err) {
		return err
	}
	return fmt.Errorf("firestore %s: %w", op, err)
}
