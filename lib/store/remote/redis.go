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
	"context"
	"fmt"

	"github.com/go-redis/redis"
)

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func NewRedisClient(conf RedisConfig) Client {
	return &redisClient{
		Client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port)}),
	}
}

type redisClient struct {
	*redis.Client
}

type redisSetPipeline struct {
	pipe redis.Pipeliner
	cmds map[string]*redis.StatusCmd
}

func (r *redisClient) NewSetPipeline(size int) SetPipeline {
	return &redisSetPipeline{
		pipe: r.Pipeline(),
		cmds: make(map[string]*redis.StatusCmd, size),
	}
}

func (r *redisClient) Ready() bool {
	return r.Ping().Err() == nil
}

func (r *redisSetPipeline) Set(key string, data []byte) {
	r.cmds[key] = r.pipe.Set(key, data, 0)
}

func (r *redisSetPipeline) ExecSet(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.pipe.Exec()
	return err
}

func (r *redisSetPipeline) Size() int {
	return len(r.cmds)
}
