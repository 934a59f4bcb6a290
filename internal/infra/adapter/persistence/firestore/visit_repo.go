// Firestore-backed visit store. Documents live in a single collection and
// carry the record id in the document name, not in the document body.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"medgenie/internal/domain/entity"
	"medgenie/internal/observability/metrics"
	"medgenie/internal/repository"
)

// DefaultCollection is the collection holding visit summary documents.
const DefaultCollection = "summaries"

// NewClient connects to Firestore with the service account credentials at
// credFile. The project id is detected from the credentials when projectID
// is empty.
func NewClient(ctx context.Context, projectID, credFile string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credFile))
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// visitDoc is the stored document shape. The serverTimestamp option makes
// Firestore stamp the creation time. UpdatedAt is a pointer so the field
// stays absent from the document until the first diagnosis update; a zero
// time.Time would not count as empty for omitempty.
type visitDoc struct {
	OriginalText string     `firestore:"original_text"`
	Summary      string     `firestore:"summary"`
	PatientID    string     `firestore:"patient_id"`
	VisitDate    string     `firestore:"visit_date"`
	Timestamp    time.Time  `firestore:"timestamp,serverTimestamp"`
	Diagnosis    string     `firestore:"diagnosis"`
	Status       string     `firestore:"status"`
	UpdatedAt    *time.Time `firestore:"updated_at,omitempty"`
}

type VisitRepo struct {
	client     *firestore.Client
	collection string
}

func NewVisitRepo(client *firestore.Client, collection string) repository.VisitRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &VisitRepo{client: client, collection: collection}
}

func (repo *VisitRepo) col() *firestore.CollectionRef {
	return repo.client.Collection(repo.collection)
}

func docToVisit(snap *firestore.DocumentSnapshot) (*entity.Visit, error) {
	var doc visitDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
	}
	visit := &entity.Visit{
		ID:           snap.Ref.ID,
		OriginalText: doc.OriginalText,
		Summary:      doc.Summary,
		PatientID:    doc.PatientID,
		VisitDate:    doc.VisitDate,
		Timestamp:    doc.Timestamp,
		Diagnosis:    doc.Diagnosis,
		Status:       doc.Status,
	}
	if doc.UpdatedAt != nil {
		visit.UpdatedAt = *doc.UpdatedAt
	}
	return visit, nil
}

// Create writes a new document with a store-generated id. Firestore stamps
// the timestamp; the write result's update time is handed back on the entity
// so callers see the server-assigned value.
func (repo *VisitRepo) Create(ctx context.Context, visit *entity.Visit) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("create_visit", time.Since(start)) }()

	ref := repo.col().NewDoc()
	wr, err := ref.Create(ctx, visitDoc{
		OriginalText: visit.OriginalText,
		Summary:      visit.Summary,
		PatientID:    visit.PatientID,
		VisitDate:    visit.VisitDate,
		Diagnosis:    visit.Diagnosis,
		Status:       visit.Status,
	})
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	visit.ID = ref.ID
	visit.Timestamp = wr.UpdateTime
	return nil
}

func (repo *VisitRepo) Get(ctx context.Context, id string) (*entity.Visit, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("get_visit", time.Since(start)) }()

	snap, err := repo.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return docToVisit(snap)
}

// UpdateDiagnosis records the diagnosis, moves the document to completed and
// lets Firestore stamp updated_at.
func (repo *VisitRepo) UpdateDiagnosis(ctx context.Context, id string, diagnosis string) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("update_diagnosis", time.Since(start)) }()

	_, err := repo.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "diagnosis", Value: diagnosis},
		{Path: "status", Value: entity.StatusCompleted},
		{Path: "updated_at", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("UpdateDiagnosis: no document updated")
	}
	if err != nil {
		return fmt.Errorf("UpdateDiagnosis: %w", err)
	}
	return nil
}

func (repo *VisitRepo) ListByPatient(ctx context.Context, patientID string, limit int) ([]*entity.Visit, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("list_by_patient", time.Since(start)) }()

	q := repo.col().
		Where("patient_id", "==", patientID).
		OrderBy("visit_date", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	// Preallocate to reduce reallocation on typical history sizes
	visits := make([]*entity.Visit, 0, 50)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListByPatient: %w", err)
		}
		visit, err := docToVisit(snap)
		if err != nil {
			return nil, fmt.Errorf("ListByPatient: %w", err)
		}
		visits = append(visits, visit)
	}
	return visits, nil
}

// Probe fetches at most one document to verify store connectivity. An empty
// collection is a healthy outcome.
func (repo *VisitRepo) Probe(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("probe", time.Since(start)) }()

	iter := repo.col().Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("Probe: %w", err)
	}
	return nil
}

// CountByStatus runs a server-side count aggregation so the whole collection
// never travels over the wire.
func (repo *VisitRepo) CountByStatus(ctx context.Context, state string) (int64, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreQuery("count_by_status", time.Since(start)) }()

	q := repo.col().Where("status", "==", state)
	res, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("CountByStatus: %w", err)
	}
	value, ok := res["count"]
	if !ok {
		return 0, fmt.Errorf("CountByStatus: aggregation result missing count")
	}
	return value.(*firestorepb.Value).GetIntegerValue(), nil
}
