package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/project-dashboard/internal/projects/domain"
)

// setupFirestore runs against the local emulator only:
// gcloud emulators firestore start --host-port=localhost:8080
// FIRESTORE_EMULATOR_HOST=localhost:8080
func setupFirestore(t *testing.T) *FirestoreBackend {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "demo-dashboard")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewFirestoreBackend(client, "test-"+uuid.NewString())
}

func TestFirestoreStore_Contract(t *testing.T) {
	b := setupFirestore(t)
	runStoreContract(t, b.ForUser("user-1"))
}

func TestFirestoreStore_DocumentPath(t *testing.T) {
	b := setupFirestore(t)
	ctx := context.Background()

	ack, err := b.ForUser("user-1").Create(ctx, domain.Project{Name: "Pathed"})
	require.NoError(t, err)

	doc, err := b.client.Doc("artifacts/" + b.appID + "/users/user-1/projects/" + ack.ID).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pathed", doc.Data()["name"])
	_, stored := doc.Data()["id"]
	assert.False(t, stored, "the id is the document key")
}

func TestFirestoreBackend_Ping(t *testing.T) {
	b := setupFirestore(t)
	assert.NoError(t, b.Ping(context.Background()))
}
