package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lk-health/corpus-annotator/lib/annotation"
	"github.com/lk-health/corpus-annotator/lib/domain"
	"github.com/lk-health/corpus-annotator/lib/entity"
	"github.com/lk-health/corpus-annotator/lib/intent"
	"github.com/lk-health/corpus-annotator/lib/language"
	"github.com/lk-health/corpus-annotator/lib/qa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	stored map[string][]byte
	execs  []int
	err    error
}

func newFakeClient() *fakeClient {
	return &fakeClient{stored: map[string][]byte{}}
}

func (f *fakeClient) NewSetPipeline(size int) SetPipeline {
	return &fakePipeline{client: f, pending: make(map[string][]byte, size)}
}

func (f *fakeClient) Ready() bool {
	return f.err == nil
}

type fakePipeline struct {
	client  *fakeClient
	pending map[string][]byte
}

func (p *fakePipeline) Set(key string, data []byte) {
	p.pending[key] = data
}

func (p *fakePipeline) ExecSet(context.Context) error {
	p.client.execs = append(p.client.execs, len(p.pending))
	if p.client.err != nil {
		return p.client.err
	}
	for k, v := range p.pending {
		p.client.stored[k] = v
	}
	return nil
}

func (p *fakePipeline) Size() int {
	return len(p.pending)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	repo := NewRepository(client)

	require.NoError(t, repo.UpdateLanguage(ctx, annotation.LanguageRecord{
		ContextID: "doc-1", DetectedLanguage: "english", LanguageConfidence: 0.9, IsRomanized: true, RomanizedType: "singlish",
	}))
	require.NoError(t, repo.UpdateEntities(ctx, "doc-1", []annotation.EntityRecord{{Type: "disease", Text: "dengue", Start: 0, End: 6}}))
	require.NoError(t, repo.UpdateIntentDomain(ctx, "doc-1", "asking_location", "dengue"))
	require.NoError(t, repo.InsertQAPair(ctx, annotation.QAPairRecord{ID: "qa-1", QuestionText: "Where is the dengue clinic?"}))

	assert.JSONEq(t,
		`{"context_id":"doc-1","detected_language":"english","language_confidence":0.9,"is_romanized":true,"romanized_type":"singlish"}`,
		string(client.stored["annotation:doc-1:language"]))
	assert.JSONEq(t,
		`{"context_id":"doc-1","entities":[{"type":"disease","text":"dengue","normalized":"","start":0,"end":6,"confidence":0,"metadata":null}]}`,
		string(client.stored["annotation:doc-1:entities"]))
	assert.JSONEq(t,
		`{"context_id":"doc-1","intent":"asking_location","domain":"dengue"}`,
		string(client.stored["annotation:doc-1:intent_domain"]))

	var pair annotation.QAPairRecord
	require.NoError(t, json.Unmarshal(client.stored["qa_pair:qa-1"], &pair))
	assert.Equal(t, "Where is the dengue clinic?", pair.QuestionText)
}

func TestSaveBatch(t *testing.T) {
	var _ annotation.Batcher = (*Repository)(nil)

	res := annotation.Result{
		ContextID: "doc-1",
		Language:  &language.Result{Language: language.English, Confidence: 0.9, ScriptType: language.LatinScript},
		Entities:  &entity.Result{Entities: []entity.Entity{{Type: entity.Disease, Text: "dengue", Start: 0, End: 6}}},
		Intent:    &intent.Result{Intent: intent.AskingLocation},
		Domain:    &domain.Result{Primary: domain.Dengue},
		QAPairs:   []qa.Pair{{ID: "qa-1"}, {ID: "qa-2"}},
	}

	tests := []struct {
		name  string
		res   annotation.Result
		err   error
		execs []int
		keys  []string
	}{
		{
			name:  "one round trip per document",
			res:   res,
			execs: []int{5},
			keys: []string{
				"annotation:doc-1:language",
				"annotation:doc-1:entities",
				"annotation:doc-1:intent_domain",
				"qa_pair:qa-1",
				"qa_pair:qa-2",
			},
		},
		{
			name:  "failed document",
			res:   annotation.Result{ContextID: "doc-2", Errors: []string{"boom"}},
			execs: []int{1},
			keys:  []string{"annotation:doc-2:intent_domain"},
		},
		{
			name:  "commit error",
			res:   res,
			err:   errors.New("connection reset"),
			execs: []int{5},
		},
	}
	for _, tt := range tests {
		t.Log(tt.name)
		client := newFakeClient()
		client.err = tt.err

		err := annotation.Save(context.Background(), tt.res, NewRepository(client))

		assert.Equal(t, tt.execs, client.execs)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "qa_pair:qa-2")
			assert.Empty(t, client.stored)
			continue
		}
		require.NoError(t, err)
		assert.Len(t, client.stored, len(tt.keys))
		for _, k := range tt.keys {
			assert.Contains(t, client.stored, k)
		}
	}
}

func TestBatchEmpty(t *testing.T) {
	client := newFakeClient()
	require.NoError(t, NewRepository(client).NewBatch().Commit(context.Background()))
	assert.Empty(t, client.execs)
}

func TestRepositoryErrors(t *testing.T) {
	boom := errors.New("connection refused")
	client := newFakeClient()
	client.err = boom
	repo := NewRepository(client)

	err := repo.UpdateIntentDomain(context.Background(), "doc-1", "unknown", "general")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "annotation:doc-1:intent_domain")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewRepository(newFakeClient()).InsertQAPair(ctx, annotation.QAPairRecord{ID: "qa"}), context.Canceled)
}

func esServer(t *testing.T, handler http.HandlerFunc) ElasticsearchConfig {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	addr := srv.Listener.Addr().(*net.TCPAddr)
	return ElasticsearchConfig{Host: addr.IP.String(), Port: addr.Port, Index: "annotations"}
}

func TestElasticsearchBulk(t *testing.T) {
	var path, body string
	conf := esServer(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := ioutil.ReadAll(r.Body)
		path, body = r.URL.Path, string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[{"index":{"_id":"qa_pair:qa-1","status":201}}]}`))
	})
	client, err := NewElasticsearchClient(conf)
	require.NoError(t, err)

	pipe := client.NewSetPipeline(1)
	pipe.Set("qa_pair:qa-1", []byte(`{"id":"qa-1"}`))
	assert.Equal(t, 1, pipe.Size())
	require.NoError(t, pipe.ExecSet(context.Background()))

	assert.Equal(t, "/annotations/_bulk", path)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"index":{"_id":"qa_pair:qa-1"}}`, lines[0])
	assert.JSONEq(t, `{"id":"qa-1"}`, lines[1])
}

func TestElasticsearchBulkItemErrors(t *testing.T) {
	conf := esServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":1,"errors":true,"items":[{"index":{"_id":"k","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}}]}`))
	})
	client, err := NewElasticsearchClient(conf)
	require.NoError(t, err)

	pipe := client.NewSetPipeline(1)
	pipe.Set("k", []byte(`{}`))
	err = pipe.ExecSet(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestElasticsearchReady(t *testing.T) {
	conf := esServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":{"number":"7.13.1"}}`))
	})
	client, err := NewElasticsearchClient(conf)
	require.NoError(t, err)
	assert.True(t, client.Ready())
}

func closedPort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestRedisUnavailable(t *testing.T) {
	client := NewRedisClient(RedisConfig{Host: "127.0.0.1", Port: closedPort(t)})
	assert.False(t, client.Ready())

	err := NewRepository(client).UpdateIntentDomain(context.Background(), "doc-1", "unknown", "general")
	assert.Error(t, err)
}
