package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/database"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

type recordingIndex struct {
	mu      sync.Mutex
	indexed []uuid.UUID
	removed []uuid.UUID
}

func (r *recordingIndex) IndexProduct(_ context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, p.ID)
	return nil
}

func (r *recordingIndex) RemoveProduct(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return nil
}

type recordingNotifier struct {
	decisions []models.ProjectStatus
}

func (r *recordingNotifier) ReviewDecided(_ context.Context, p *models.Project) error {
	r.decisions = append(r.decisions, p.Status)
	return nil
}

type testEnv struct {
	ctx      context.Context
	db       database.Database
	svc      *ProjectService
	index    *recordingIndex
	notifier *recordingNotifier

	ai, data, cyber models.Department

	alice *models.User // engineer, ai
	bob   *models.User // engineer, ai
	carol *models.User // engineer, data
	dave  *models.User // engineer, cyber
	admin *models.User // admin, no department
}

func newTestEnv(t *testing.T, opts ...ProjectServiceOption) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db := database.New(gdb)
	require.NoError(t, db.Migrate())
	require.NoError(t, database.SeedDepartments(ctx, gdb))

	e := &testEnv{ctx: ctx, db: db, index: &recordingIndex{}, notifier: &recordingNotifier{}}
	for slug, dst := range map[string]*models.Department{"ai-ml": &e.ai, "data-science": &e.data, "cybersecurity": &e.cyber} {
		d, err := db.DepartmentRepo().FindBySlug(ctx, slug)
		require.NoError(t, err)
		*dst = *d
	}

	user := func(email string, dept *models.Department, roles models.Role) *models.User {
		u := &models.User{Email: email, Name: email, Roles: roles}
		if dept != nil {
			u.DepartmentID = &dept.ID
		}
		require.NoError(t, db.UserRepo().Add(ctx, u))
		return u
	}
	e.alice = user("alice@example.edu", &e.ai, models.RoleEngineer)
	e.bob = user("bob@example.edu", &e.ai, models.RoleEngineer)
	e.carol = user("carol@example.edu", &e.data, models.RoleEngineer)
	e.dave = user("dave@example.edu", &e.cyber, models.RoleEngineer)
	e.admin = user("admin@example.edu", nil, models.RoleAdmin|models.RoleEngineer)

	opts = append([]ProjectServiceOption{
		WithProductIndex(e.index),
		WithReviewNotifier(e.notifier),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	e.svc = NewProjectService(db, opts...)
	return e
}

func (e *testEnv) input(depts ...models.Department) ProjectInput {
	ids := make([]uuid.UUID, 0, len(depts))
	for _, d := range depts {
		ids = append(ids, d.ID)
	}
	demo := "https://demo.example.edu/sentinel"
	return ProjectInput{
		Name:          "Sentinel",
		DepartmentIDs: ids,
		Tagline:       "Threat detection for campus networks",
		Description:   "Streams flow logs into an anomaly detector.",
		Image:         "https://cdn.example.edu/sentinel.png",
		Tags:          []string{"security", " security ", "ml", ""},
		ProductStatus: models.ProductBeta,
		Technologies:  []string{"go", "kafka"},
		DemoURL:       &demo,
		Media: []MediaInput{
			{URL: "https://cdn.example.edu/shot-1.png", Kind: models.MediaImage},
			{URL: "https://cdn.example.edu/demo.mp4", Kind: models.MediaVideo},
		},
		Documents: []DocumentInput{
			{URL: "https://cdn.example.edu/paper.pdf", Title: "Paper", Kind: models.DocumentPDF},
		},
	}
}

func (e *testEnv) create(t *testing.T, author *models.User, submit bool, depts ...models.Department) uuid.UUID {
	t.Helper()
	res := e.svc.Create(e.ctx, author, e.input(depts...), submit)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.ProjectID)
	return *res.ProjectID
}

func (e *testEnv) get(t *testing.T, id uuid.UUID) *models.Project {
	t.Helper()
	p, err := e.svc.GetByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func strPtr(s string) *string { return &s }

func TestCreateDraft(t *testing.T) {
	e := newTestEnv(t)
	res := e.svc.Create(e.ctx, e.alice, e.input(e.data, e.ai), false)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Project saved as draft", res.Message)
	assert.NoError(t, res.Err)
	assert.Empty(t, res.Kind())

	p := e.get(t, *res.ProjectID)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Nil(t, p.SubmittedAt)
	assert.Equal(t, e.alice.ID, *p.SubmittedByID)
	assert.Equal(t, []string{"security", "ml"}, []string(p.Tags))
	assert.Equal(t, []uuid.UUID{e.ai.ID, e.data.ID}, p.DepartmentIDs())
	require.Len(t, p.Media, 2)
	assert.Equal(t, "https://cdn.example.edu/shot-1.png", p.Media[0].URL)
	assert.Len(t, p.Documents, 1)
	assert.Equal(t, 1, p.Version)
}

func TestCreateSubmittedForReview(t *testing.T) {
	e := newTestEnv(t)
	res := e.svc.Create(e.ctx, e.alice, e.input(e.ai), true)
	require.True(t, res.Success)
	assert.Equal(t, "Project submitted for review", res.Message)

	p := e.get(t, *res.ProjectID)
	assert.Equal(t, models.StatusUnderReview, p.Status)
	require.NotNil(t, p.SubmittedAt)
	assert.True(t, fixedNow.Equal(*p.SubmittedAt))
}

func TestCreateValidation(t *testing.T) {
	e := newTestEnv(t)

	cases := map[string]func(in *ProjectInput){
		"blank name":         func(in *ProjectInput) { in.Name = "   " },
		"no departments":     func(in *ProjectInput) { in.DepartmentIDs = nil },
		"unknown department": func(in *ProjectInput) { in.DepartmentIDs = append(in.DepartmentIDs, uuid.New()) },
		"bad product status": func(in *ProjectInput) { in.ProductStatus = "GA" },
		"bad media url":      func(in *ProjectInput) { in.Media[1].URL = "not a url" },
		"bad document kind":  func(in *ProjectInput) { in.Documents[0].Kind = "SPREADSHEET" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := e.input(e.ai)
			mutate(&in)
			res := e.svc.Create(e.ctx, e.alice, in, false)
			assert.False(t, res.Success)
			assert.Nil(t, res.ProjectID)
			assert.Equal(t, errs.KindValidationFailed, res.Kind(), res.Message)
		})
	}

	all, err := e.svc.ListAll(e.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all, "failed creates leave nothing behind")

	res := e.svc.Create(e.ctx, nil, e.input(e.ai), false)
	assert.Equal(t, errs.KindUnauthorized, res.Kind())
}

func TestValidationErrorNamesJSONPath(t *testing.T) {
	e := newTestEnv(t)
	in := e.input(e.ai)
	in.Media[1].URL = "nope"

	res := e.svc.Create(e.ctx, e.alice, in, false)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "media[1].url", apiErr.Field)
}

// Draft -> UnderReview -> Rejected -> edit -> UnderReview, with the reviewer's
// notes kept until the next decision.
func TestReviewRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	res := e.svc.SubmitForReview(e.ctx, e.alice, id)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, models.StatusUnderReview, e.get(t, id).Status)

	res = e.svc.Reject(e.ctx, e.admin, id, ReviewDecision{Notes: strPtr("Add benchmark results")})
	require.True(t, res.Success, res.Message)
	p := e.get(t, id)
	assert.Equal(t, models.StatusRejected, p.Status)
	assert.Equal(t, "Add benchmark results", *p.ReviewNotes)
	require.NotNil(t, p.ReviewedAt)

	res = e.svc.Update(e.ctx, e.bob, id, ProjectPatch{Description: strPtr("Now with benchmarks.")})
	require.True(t, res.Success, res.Message)

	res = e.svc.SubmitForReview(e.ctx, e.bob, id)
	require.True(t, res.Success, res.Message)
	p = e.get(t, id)
	assert.Equal(t, models.StatusUnderReview, p.Status)
	assert.Equal(t, "Now with benchmarks.", p.Description)
	require.NotNil(t, p.ReviewNotes)
	assert.Equal(t, "Add benchmark results", *p.ReviewNotes)

	res = e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{})
	require.True(t, res.Success, res.Message)
	p = e.get(t, id)
	assert.Equal(t, models.StatusApproved, p.Status)
	assert.Nil(t, p.ReviewNotes, "approval without notes clears the previous notes")
	assert.Equal(t, 6, p.Version)

	assert.Equal(t, []models.ProjectStatus{models.StatusRejected, models.StatusApproved}, e.notifier.decisions)
	assert.Equal(t, []uuid.UUID{id}, e.index.indexed)

	products, err := e.svc.ListProducts(e.ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id.String(), products[0].ID)
}

func TestResubmitStampsNewSubmissionTime(t *testing.T) {
	now := fixedNow
	e := newTestEnv(t, WithClock(func() time.Time { return now }))
	id := e.create(t, e.alice, true, e.ai)
	require.True(t, fixedNow.Equal(*e.get(t, id).SubmittedAt))

	now = fixedNow.Add(2 * time.Hour)
	require.True(t, e.svc.Reject(e.ctx, e.admin, id, ReviewDecision{Notes: strPtr("Needs a demo")}).Success)
	p := e.get(t, id)
	require.NotNil(t, p.ReviewedAt)
	assert.True(t, now.Equal(*p.ReviewedAt))
	assert.True(t, fixedNow.Equal(*p.SubmittedAt), "rejection keeps the submission time")

	now = fixedNow.Add(26 * time.Hour)
	require.True(t, e.svc.SubmitForReview(e.ctx, e.alice, id).Success)
	p = e.get(t, id)
	require.NotNil(t, p.SubmittedAt)
	assert.True(t, now.Equal(*p.SubmittedAt), "resubmission overwrites submittedAt")
	assert.Equal(t, "Needs a demo", *p.ReviewNotes)
}

func TestIllegalTransitionsLeaveStatus(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	res := e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{})
	assert.Equal(t, errs.KindInvalidTransition, res.Kind())
	assert.Equal(t, models.StatusDraft, e.get(t, id).Status)

	require.True(t, e.svc.SubmitForReview(e.ctx, e.alice, id).Success)
	res = e.svc.SubmitForReview(e.ctx, e.alice, id)
	assert.Equal(t, errs.KindInvalidTransition, res.Kind())

	res = e.svc.Reject(e.ctx, e.admin, id, ReviewDecision{Notes: strPtr("   ")})
	assert.Equal(t, errs.KindValidationFailed, res.Kind())
	assert.Equal(t, models.StatusUnderReview, e.get(t, id).Status)

	res = e.svc.Approve(e.ctx, e.carol, id, ReviewDecision{})
	assert.Equal(t, errs.KindUnauthorized, res.Kind())
	assert.Equal(t, models.StatusUnderReview, e.get(t, id).Status)
	assert.Empty(t, e.notifier.decisions)
}

func TestAdminIsNotGrantedSubmit(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	res := e.svc.SubmitForReview(e.ctx, e.admin, id)
	assert.Equal(t, errs.KindUnauthorized, res.Kind())

	res = e.svc.SubmitForReview(e.ctx, e.dave, id)
	assert.Equal(t, errs.KindUnauthorized, res.Kind())

	res = e.svc.SubmitForReview(e.ctx, e.bob, id)
	assert.True(t, res.Success, "same department as the submitter")
}

func TestSubmitRequiresDepartments(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	none := []uuid.UUID{}
	res := e.svc.Update(e.ctx, e.alice, id, ProjectPatch{DepartmentIDs: &none})
	require.True(t, res.Success, "drafts may drop every department")

	res = e.svc.SubmitForReview(e.ctx, e.alice, id)
	assert.Equal(t, errs.KindValidationFailed, res.Kind())
	assert.Equal(t, models.StatusDraft, e.get(t, id).Status)
}

func TestUpdateReplacesSuppliedSets(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	depts := []uuid.UUID{e.cyber.ID, e.data.ID}
	tags := []string{"edge"}
	res := e.svc.Update(e.ctx, e.alice, id, ProjectPatch{
		Name:          strPtr("  Sentinel 2  "),
		DepartmentIDs: &depts,
		Tags:          &tags,
		DemoURL:       strPtr(""),
	})
	require.True(t, res.Success, res.Message)

	p := e.get(t, id)
	assert.Equal(t, "Sentinel 2", p.Name)
	assert.Equal(t, []uuid.UUID{e.cyber.ID, e.data.ID}, p.DepartmentIDs())
	assert.Equal(t, []string{"edge"}, []string(p.Tags))
	assert.Equal(t, []string{"go", "kafka"}, []string(p.Technologies), "absent field untouched")
	assert.Nil(t, p.DemoURL, "empty string clears the link")
	assert.Len(t, p.Media, 2, "absent media key keeps the set")
	assert.Len(t, p.Documents, 1)

	noMedia := []MediaInput{}
	docs := []DocumentInput{
		{URL: "https://cdn.example.edu/deck", Title: "Deck", Kind: models.DocumentSlides},
		{URL: "https://cdn.example.edu/report.pdf", Title: "Report", Kind: models.DocumentReport},
	}
	res = e.svc.Update(e.ctx, e.alice, id, ProjectPatch{Media: &noMedia, Documents: &docs})
	require.True(t, res.Success, res.Message)

	p = e.get(t, id)
	assert.Empty(t, p.Media)
	require.Len(t, p.Documents, 2)
	assert.Equal(t, "Deck", p.Documents[0].Title)
	assert.Equal(t, 1, p.Documents[1].Position)
	assert.Len(t, p.Departments, 2)
}

func TestUpdateClearsOptionalLinks(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	res := e.svc.Update(e.ctx, e.alice, id, ProjectPatch{GithubURL: strPtr("https://github.com/example/sentinel")})
	require.True(t, res.Success, res.Message)
	require.NotNil(t, e.get(t, id).GithubURL)

	res = e.svc.Update(e.ctx, e.alice, id, ProjectPatch{
		GithubURL: strPtr(""),
		DemoURL:   strPtr("   "),
		Image:     strPtr(""),
	})
	require.True(t, res.Success, res.Message)

	p := e.get(t, id)
	assert.Nil(t, p.GithubURL)
	assert.Nil(t, p.DemoURL)
	assert.Empty(t, p.Image)

	res = e.svc.Update(e.ctx, e.alice, id, ProjectPatch{DemoURL: strPtr("not a link")})
	assert.Equal(t, errs.KindValidationFailed, res.Kind())
	var apiErr *errs.ApiErr
	require.ErrorAs(t, res.Err, &apiErr)
	assert.Equal(t, "demoUrl", apiErr.Field)
}

func TestUpdateRules(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, true, e.ai)

	res := e.svc.Update(e.ctx, e.dave, id, ProjectPatch{Name: strPtr("Hijacked")})
	assert.Equal(t, errs.KindUnauthorized, res.Kind(), "unrelated engineer")

	res = e.svc.Update(e.ctx, e.alice, id, ProjectPatch{Name: strPtr("Mid-review edit")})
	assert.Equal(t, errs.KindInvalidTransition, res.Kind(), "locked while under review")

	res = e.svc.Update(e.ctx, e.admin, id, ProjectPatch{Name: strPtr("")})
	assert.Equal(t, errs.KindValidationFailed, res.Kind())

	none := []uuid.UUID{}
	res = e.svc.Update(e.ctx, e.admin, id, ProjectPatch{DepartmentIDs: &none})
	assert.Equal(t, errs.KindValidationFailed, res.Kind(), "submitted projects keep a department")

	res = e.svc.Update(e.ctx, e.alice, uuid.New(), ProjectPatch{})
	assert.Equal(t, errs.KindNotFound, res.Kind())

	require.True(t, e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{Notes: strPtr("ship it")}).Success)

	res = e.svc.Update(e.ctx, e.alice, id, ProjectPatch{Tagline: strPtr("after approval")})
	assert.Equal(t, errs.KindInvalidTransition, res.Kind(), "engineers cannot edit approved projects")

	res = e.svc.Update(e.ctx, e.admin, id, ProjectPatch{Tagline: strPtr("polished by admin")})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "polished by admin", e.get(t, id).Tagline)
	assert.Equal(t, []uuid.UUID{id, id}, e.index.indexed, "approve and the admin edit both index")
}

func TestStaleVersionConflicts(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	stale := 1
	require.True(t, e.svc.Update(e.ctx, e.alice, id, ProjectPatch{Version: &stale, Tagline: strPtr("first")}).Success)

	res := e.svc.Update(e.ctx, e.bob, id, ProjectPatch{Version: &stale, Tagline: strPtr("second")})
	assert.Equal(t, errs.KindConflict, res.Kind())
	assert.True(t, errs.IsStaleVersionError(res.Err))
	assert.Equal(t, "first", e.get(t, id).Tagline)

	require.True(t, e.svc.SubmitForReview(e.ctx, e.alice, id).Success)
	res = e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{Version: &stale})
	assert.Equal(t, errs.KindConflict, res.Kind())
	assert.Equal(t, models.StatusUnderReview, e.get(t, id).Status)
}

func TestDeleteConfirmation(t *testing.T) {
	e := newTestEnv(t)

	id := e.create(t, e.alice, false, e.ai)
	res := e.svc.Delete(e.ctx, e.alice, id, strPtr("WrongName"))
	assert.Equal(t, errs.KindValidationFailed, res.Kind())
	assert.True(t, errs.IsConfirmationMismatchError(res.Err))
	e.get(t, id)

	res = e.svc.Delete(e.ctx, e.alice, id, strPtr("sentinel"))
	assert.Equal(t, errs.KindValidationFailed, res.Kind(), "match is exact")

	res = e.svc.Delete(e.ctx, e.dave, id, strPtr("Sentinel"))
	assert.Equal(t, errs.KindUnauthorized, res.Kind())

	res = e.svc.Delete(e.ctx, e.alice, id, strPtr("Sentinel"))
	require.True(t, res.Success, res.Message)
	p, err := e.svc.GetByID(e.ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)

	other := e.create(t, e.carol, false, e.data)
	res = e.svc.Delete(e.ctx, e.carol, other, nil)
	assert.True(t, res.Success, "confirmation is optional")

	res = e.svc.Delete(e.ctx, e.carol, other, nil)
	assert.Equal(t, errs.KindNotFound, res.Kind())
}

func TestGetByIDIgnoresCallerCancellation(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai)

	ctx, cancel := context.WithCancel(e.ctx)
	cancel()
	p, err := e.svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, p.ID)
}

func TestDeleteApprovedRemovesProduct(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, true, e.ai)
	require.True(t, e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{}).Success)

	require.True(t, e.svc.Delete(e.ctx, e.admin, id, nil).Success)
	assert.Equal(t, []uuid.UUID{id}, e.index.removed)
}

func TestGetByIDIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	id := e.create(t, e.alice, false, e.ai, e.data)

	first := e.get(t, id)
	second := e.get(t, id)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))

	var wg sync.WaitGroup
	results := make([]*models.Project, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.svc.GetByID(e.ctx, id)
		}(i)
	}
	wg.Wait()
	for _, p := range results {
		require.NotNil(t, p)
		assert.Equal(t, id, p.ID)
	}
}

func TestListings(t *testing.T) {
	e := newTestEnv(t)
	own := e.create(t, e.alice, false, e.cyber)
	colleague := e.create(t, e.bob, true, e.data)
	collab := e.create(t, e.carol, true, e.ai)
	unrelated := e.create(t, e.dave, false, e.cyber)

	visible, err := e.svc.ListForUser(e.ctx, e.alice)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(visible))
	for _, p := range visible {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{own, colleague, collab}, ids)
	assert.NotContains(t, ids, unrelated)

	_, err = e.svc.ListForUser(e.ctx, nil)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))

	all, err := e.svc.ListAll(e.ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	status := models.StatusUnderReview
	queue, err := e.svc.ListAll(e.ctx, &status)
	require.NoError(t, err)
	assert.Len(t, queue, 2)

	bogus := models.ProjectStatus("ARCHIVED")
	_, err = e.svc.ListAll(e.ctx, &bogus)
	assert.Equal(t, errs.KindValidationFailed, errs.KindOf(err))
}

func TestProductsAreCachedUntilAReviewDecision(t *testing.T) {
	s := miniredis.RunT(t)
	cache, err := NewPageCache("redis://"+s.Addr(), time.Minute)
	require.NoError(t, err)
	e := newTestEnv(t, WithPageCache(cache))

	id := e.create(t, e.alice, true, e.ai)
	products, err := e.svc.ListProducts(e.ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	product, err := e.svc.GetProduct(e.ctx, id)
	require.NoError(t, err)
	assert.Nil(t, product, "not approved yet")

	require.True(t, e.svc.Approve(e.ctx, e.admin, id, ReviewDecision{}).Success)

	products, err = e.svc.ListProducts(e.ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Sentinel", products[0].Name)

	product, err = e.svc.GetProduct(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, id.String(), product.ID)
	assert.Len(t, product.Media, 2)
	assert.Len(t, product.Documents, 1)
	require.NotNil(t, product.PublishedAt)
	assert.True(t, fixedNow.Equal(*product.PublishedAt))
}
