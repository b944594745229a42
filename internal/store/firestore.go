package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the Firestore collection holding documents.
const DefaultCollection = "troskovi"

// firestoreDoc is the stored shape of one document.
type firestoreDoc struct {
	Data      string    `firestore:"data"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Firestore stores each document in one Firestore document of a collection.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// OpenFirestore connects using Application Default Credentials, or the
// credentials file when one is given.
func OpenFirestore(ctx context.Context, projectID, collection, credentialsFile string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	if collection == "" {
		collection = DefaultCollection
	}
	return &Firestore{client: client, collection: collection}, nil
}

func (f *Firestore) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := f.client.Collection(f.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return []byte(doc.Data), nil
}

func (f *Firestore) Set(ctx context.Context, key string, data []byte) error {
	doc := firestoreDoc{Data: string(data), UpdatedAt: time.Now().UTC()}
	if _, err := f.client.Collection(f.collection).Doc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
