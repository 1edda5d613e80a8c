/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lk-health/corpus-annotator/lib/annotation"
	"github.com/lk-health/corpus-annotator/lib/store/local"
	"github.com/lk-health/corpus-annotator/lib/store/remote"
	"github.com/lk-health/corpus-annotator/lib/store/sqlite"
	"github.com/rs/zerolog/log"
)

type SinkType string

const (
	NoSink            SinkType = "none"
	MemorySink        SinkType = "memory"
	RedisSink         SinkType = "redis"
	ElasticsearchSink SinkType = "elasticsearch"
	SqliteSink        SinkType = "sqlite"
)

var ErrUnknownSink = errors.New("unknown sink type")

type sinkConfig struct {
	Type          SinkType
	Redis         remote.RedisConfig
	Elasticsearch remote.ElasticsearchConfig
	Sqlite        struct {
		Path string
	}
	// ReadyTimeout bounds the wait for a remote sink to accept connections.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

// openSink returns the repository annotations are saved to, nil for NoSink, and a
// function releasing it.
func openSink(ctx context.Context, conf sinkConfig) (annotation.Repository, func() error, error) {
	noop := func() error { return nil }

	switch conf.Type {
	case NoSink, "":
		return nil, noop, nil
	case MemorySink:
		return local.New(), noop, nil
	case SqliteSink:
		st, err := sqlite.Open(ctx, conf.Sqlite.Path)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil
	case RedisSink:
		client := remote.NewRedisClient(conf.Redis)
		if err := waitReady(ctx, client, conf.ReadyTimeout); err != nil {
			return nil, noop, err
		}
		return remote.NewRepository(client), noop, nil
	case ElasticsearchSink:
		client, err := remote.NewElasticsearchClient(conf.Elasticsearch)
		if err != nil {
			return nil, noop, err
		}
		if err := waitReady(ctx, client, conf.ReadyTimeout); err != nil {
			return nil, noop, err
		}
		return remote.NewRepository(client), noop, nil
	}
	return nil, noop, fmt.Errorf("%w: %v", ErrUnknownSink, conf.Type)
}

func waitReady(ctx context.Context, client remote.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for !client.Ready() {
		log.Info().Msg("database is not ready, waiting...")
		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
