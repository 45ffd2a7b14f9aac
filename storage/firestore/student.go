package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

// Open connects to the Firestore database of the configured Firebase project.
func Open(ctx context.Context, conf *core.Config) (*firestore.Client, error) {
	var opts []option.ClientOption
	if conf.Firestore.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(conf.Firestore.CredentialsFile))
	}
	var fbConf *firebase.Config
	if conf.Firestore.ProjectID != "" {
		fbConf = &firebase.Config{ProjectID: conf.Firestore.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConf, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase app")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "opening firestore")
	}
	return client, nil
}

type studentRepository struct {
	coll *firestore.CollectionRef
}

func NewStudentRepository(client *firestore.Client, collection string) student.Repository {
	if collection == "" {
		collection = student.Collection
	}
	return &studentRepository{coll: client.Collection(collection)}
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (repo *studentRepository) collect(iter *firestore.DocumentIterator) ([]student.Record, error) {
	defer iter.Stop()

	recs := make([]student.Record, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterating records")
		}
		var rec student.Record
		if err = doc.DataTo(&rec); err != nil {
			return nil, errors.Wrapf(err, "decoding record %s", doc.Ref.ID)
		}
		rec.ID = doc.Ref.ID
		recs = append(recs, rec)
	}
	return recs, nil
}

func (repo *studentRepository) ListAll(ctx context.Context) ([]student.Record, error) {
	return repo.collect(repo.coll.Documents(ctx))
}

func (repo *studentRepository) QueryByField(ctx context.Context, field, value string) ([]student.Record, error) {
	if !student.IsField(field) {
		return nil, student.ErrUnknownField
	}
	return repo.collect(repo.coll.Where(field, "==", value).Documents(ctx))
}

func (repo *studentRepository) GetByID(ctx context.Context, id string) (student.Record, error) {
	doc, err := repo.coll.Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return student.Record{}, student.ErrNotFound
		}
		return student.Record{}, errors.Wrap(err, "getting record")
	}
	var rec student.Record
	if err = doc.DataTo(&rec); err != nil {
		return student.Record{}, errors.Wrap(err, "decoding record")
	}
	rec.ID = doc.Ref.ID
	return rec, nil
}

func (repo *studentRepository) Create(ctx context.Context, rec student.Record) (student.Record, error) {
	ref, _, err := repo.coll.Add(ctx, rec)
	if err != nil {
		return student.Record{}, errors.Wrap(err, "adding record")
	}
	rec.ID = ref.ID
	return rec, nil
}

func (repo *studentRepository) UpdateByID(ctx context.Context, id string, fields student.Fields) error {
	if !fields.Valid() {
		return student.ErrUnknownField
	}
	if len(fields) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := repo.coll.Doc(id).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return student.ErrNotFound
		}
		return errors.Wrap(err, "updating record")
	}
	return nil
}

func (repo *studentRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := repo.coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return student.ErrNotFound
		}
		return errors.Wrap(err, "deleting record")
	}
	return nil
}
