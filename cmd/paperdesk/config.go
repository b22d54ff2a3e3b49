// Copyright 2026 Ayudha Pradipta
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
)

type redisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type workerConfig struct {
	Workers int `yaml:"workers"`
}

type config struct {
	Worker workerConfig `yaml:"worker"`

	Transport redisConfig `yaml:"transport"`

	WorkflowConfigPath string `yaml:"workflows"`
}

// ReadConfig loads the yaml config at path. A missing file is not an
// error, the defaults apply.
func ReadConfig(path string) (*config, error) {
	var conf config

	file, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	if err == nil {
		if err := yaml.Unmarshal(file, &conf); err != nil {
			return nil, err
		}
	}

	if conf.Transport.Addr == "" {
		conf.Transport.Addr = "localhost:6379"
	}
	if conf.WorkflowConfigPath == "" {
		conf.WorkflowConfigPath = "default-workflows.yaml"
	}

	return &conf, nil
}
