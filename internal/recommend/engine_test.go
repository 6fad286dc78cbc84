// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/moodboard/internal/features"
)

func TestNewEngine(t *testing.T) {
	t.Parallel()

	extractor := features.NewExtractor(nil, testLogger())
	valid := Dependencies{Store: &fakeStore{}, Cache: &fakeCache{}, Extractor: extractor}

	tests := []struct {
		name    string
		cfg     *Config
		deps    Dependencies
		wantErr bool
	}{
		{
			name: "nil config uses defaults",
			cfg:  nil,
			deps: valid,
		},
		{
			name: "valid default config",
			cfg:  DefaultConfig(),
			deps: valid,
		},
		{
			name: "invalid config returns error",
			cfg: func() *Config {
				c := DefaultConfig()
				c.Limits.OverFetch = 0
				return c
			}(),
			deps:    valid,
			wantErr: true,
		},
		{
			name:    "missing store",
			deps:    Dependencies{Cache: &fakeCache{}, Extractor: extractor},
			wantErr: true,
		},
		{
			name:    "missing cache",
			deps:    Dependencies{Store: &fakeStore{}, Extractor: extractor},
			wantErr: true,
		},
		{
			name:    "missing extractor",
			deps:    Dependencies{Store: &fakeStore{}, Cache: &fakeCache{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine, err := NewEngine(tt.cfg, tt.deps, testLogger())

			if tt.wantErr {
				if err == nil {
					t.Error("NewEngine() = nil error, want error")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewEngine() error = %v, want nil", err)
			}
			if engine.config == nil {
				t.Error("engine.config = nil, want non-nil")
			}
			if engine.scorer == nil {
				t.Error("engine.scorer = nil, want non-nil")
			}
			if engine.rerankers == nil {
				t.Error("engine.rerankers = nil, want non-nil")
			}
		})
	}
}

func TestEngine_RegisterReranker(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil, testDeps{store: &fakeStore{}, cache: &fakeCache{}})
	engine.RegisterReranker(PathFeatures, &mockReranker{name: "a"})
	engine.RegisterReranker(PathFeatures, &mockReranker{name: "b"})
	engine.RegisterReranker(PathEmbedding, &mockReranker{name: "c"})

	if got := len(engine.rerankers[PathFeatures]); got != 2 {
		t.Errorf("feature rerankers = %d, want 2", got)
	}
	if got := len(engine.rerankers[PathEmbedding]); got != 1 {
		t.Errorf("embedding rerankers = %d, want 1", got)
	}
}

func TestEngine_Config(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, nil, testDeps{store: &fakeStore{}, cache: &fakeCache{}})
	cfg := engine.Config()
	cfg.Limits.DefaultLimit = 99

	if engine.config.Limits.DefaultLimit == 99 {
		t.Error("Config() returned the engine's own config, want a copy")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default config", func(*Config) {}, false},
		{"weights do not sum to one", func(c *Config) { c.Weights.Visual = 0.9 }, true},
		{"negative weight", func(c *Config) { c.Weights.Contextual = -0.08 }, true},
		{"emphasis boost above one", func(c *Config) { c.EmphasisBoost = 1.5 }, true},
		{"emphasis cap below zero", func(c *Config) { c.EmphasisCap = -0.1 }, true},
		{"MMR lambda > 1", func(c *Config) { c.Diversity.MMRLambda = 1.5 }, true},
		{"MMR lambda < 0", func(c *Config) { c.Diversity.MMRLambda = -0.1 }, true},
		{"zero default limit", func(c *Config) { c.Limits.DefaultLimit = 0 }, true},
		{"max below default", func(c *Config) { c.Limits.MaxLimit = 5; c.Limits.DefaultLimit = 10 }, true},
		{"zero over fetch", func(c *Config) { c.Limits.OverFetch = 0 }, true},
		{"zero max candidates", func(c *Config) { c.Limits.MaxCandidates = 0 }, true},
		{"zero embedding timeout", func(c *Config) { c.Timeouts.Embedding = 0 }, true},
		{"negative datastore timeout", func(c *Config) { c.Timeouts.Datastore = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestDefaultConfig_Timeouts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Timeouts.Embedding != 10*time.Second {
		t.Errorf("embedding timeout = %v, want 10s", cfg.Timeouts.Embedding)
	}
	if cfg.Timeouts.Datastore != 5*time.Second {
		t.Errorf("datastore timeout = %v, want 5s", cfg.Timeouts.Datastore)
	}
	if cfg.Limits.OverFetch != 2 {
		t.Errorf("over fetch = %d, want 2", cfg.Limits.OverFetch)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	orig := DefaultConfig()
	clone := orig.Clone()
	clone.Weights.Visual = 0
	clone.Limits.MaxLimit = 1

	if orig.Weights.Visual == 0 || orig.Limits.MaxLimit == 1 {
		t.Error("modifying clone changed the original")
	}
}

func TestEnvelope(t *testing.T) {
	t.Parallel()

	items := []SimilarItem{{ContentItem: testItem("a", "https://x.test/a.jpg")}}

	tests := []struct {
		name         string
		result       Result
		wantCount    int
		wantSource   Source
		wantFallback bool
		wantError    bool
		wantMessage  bool
	}{
		{"ranked", Ranked{Items: items, Source: SourceEmbedding}, 1, SourceEmbedding, false, false, false},
		{"ranked nil items", Ranked{Source: SourceFeatures}, 0, SourceFeatures, false, false, false},
		{"degraded recent", Degraded{Items: items, Source: SourceRecent, Reason: ReasonEmbeddingUnavailable}, 1, SourceRecent, true, false, true},
		{"degraded cache", Degraded{Items: items, Source: SourceCache, Reason: ReasonDatastoreUnavailable, ErrorMode: true}, 1, SourceCache, true, true, true},
		{"empty exhausted", Empty{Reason: ReasonExhausted, ErrorMode: true}, 0, SourceNone, true, true, true},
		{"empty no matches", Empty{Reason: ReasonNoMatches}, 0, SourceNone, false, false, true},
		{"empty pool", Empty{Reason: ReasonEmptyCandidatePool}, 0, SourceNone, false, false, true},
		{"empty custom message", Empty{Reason: ReasonReferenceNotFound, Message: "gone"}, 0, SourceNone, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := Envelope(tt.result)

			if env.Items == nil {
				t.Fatal("Items = nil, want non-nil")
			}
			if env.Count != tt.wantCount || len(env.Items) != tt.wantCount {
				t.Errorf("Count = %d (len %d), want %d", env.Count, len(env.Items), tt.wantCount)
			}
			if env.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", env.Source, tt.wantSource)
			}
			if env.FallbackMode != tt.wantFallback {
				t.Errorf("FallbackMode = %v, want %v", env.FallbackMode, tt.wantFallback)
			}
			if env.ErrorMode != tt.wantError {
				t.Errorf("ErrorMode = %v, want %v", env.ErrorMode, tt.wantError)
			}
			if (env.Message != "") != tt.wantMessage {
				t.Errorf("Message = %q, want present %v", env.Message, tt.wantMessage)
			}
		})
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		result Result
		want   string
	}{
		{Ranked{}, "ranked"},
		{Degraded{}, "degraded"},
		{Empty{}, "empty"},
		{nil, "unknown"},
	}
	for _, tt := range tests {
		if got := Kind(tt.result); got != tt.want {
			t.Errorf("Kind(%T) = %q, want %q", tt.result, got, tt.want)
		}
	}
}

func TestURLDeduplicator(t *testing.T) {
	t.Parallel()

	items := []SimilarItem{
		{ContentItem: testItem("a", "https://x.test/a.jpg?utm_source=x")},
		{ContentItem: testItem("b", "https://x.test/b.jpg")},
		{ContentItem: testItem("c", "https://X.test/a.jpg")},
	}

	out, err := URLDeduplicator{}.DedupeByURL(items)
	if err != nil {
		t.Fatalf("DedupeByURL() error = %v", err)
	}
	if got := ids(out); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("ids = %v, want [a b]", got)
	}
}
