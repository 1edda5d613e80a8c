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

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/elastic/go-elasticsearch/v7"
)

type ElasticsearchConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Index string `mapstructure:"index"`
}

type bulkResponse struct {
	Took   int  `json:"took"`
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (Client, error) {
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)},
	})
	if err != nil {
		return nil, err
	}
	return &esClient{
		Client: c,
		index:  conf.Index,
	}, nil
}

type esClient struct {
	*elasticsearch.Client
	index string
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == 200
}

func (e *esClient) NewSetPipeline(size int) SetPipeline {
	return &esPipeline{
		esClient: e,
		buf:      bytes.NewBuffer(nil),
		ids:      make([]string, 0, size),
	}
}

type esPipeline struct {
	*esClient
	buf *bytes.Buffer
	ids []string
}

// Set indexes data under the document id key.
func (p *esPipeline) Set(key string, data []byte) {
	action, _ := json.Marshal(map[string]map[string]string{"index": {"_id": key}})
	p.buf.Write(action)
	p.buf.WriteByte('\n')
	p.buf.Write(data)
	p.buf.WriteByte('\n')
	p.ids = append(p.ids, key)
}

func (p *esPipeline) ExecSet(ctx context.Context) error {
	res, err := p.Bulk(p.buf, p.Bulk.WithIndex(p.index), p.Bulk.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return errors.New(res.String())
	}

	b, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return err
	}
	var bulk bulkResponse
	if err := json.Unmarshal(b, &bulk); err != nil {
		return err
	}
	if !bulk.Errors {
		return nil
	}
	for _, item := range bulk.Items {
		for _, result := range item {
			if result.Error != nil {
				return fmt.Errorf("index %v: %v: %v", result.ID, result.Error.Type, result.Error.Reason)
			}
		}
	}
	return errors.New("bulk request reported errors")
}

func (p *esPipeline) Size() int {
	return len(p.ids)
}
