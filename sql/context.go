// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

import (
	"context"

	"github.com/sirupsen/logrus"
	uuid "github.com/satori/go.uuid"
)

// Context carries a query's correlation id and logger alongside the
// standard context.Context, the way the teacher threads a *sql.Context
// through every operator and engine call.
type Context struct {
	context.Context

	// QueryID uniquely identifies one Query/Execute call, for log
	// correlation and trace span naming.
	QueryID string

	// Log is the logger scoped to this query.
	Log *logrus.Entry
}

// NewContext wraps ctx with a fresh query id and a logger derived from log
// (or logrus.StandardLogger() if log is nil).
func NewContext(ctx context.Context, log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	id, err := uuid.NewV4()
	idStr := ""
	if err == nil {
		idStr = id.String()
	}
	return &Context{
		Context: ctx,
		QueryID: idStr,
		Log:     log.WithField("query_id", idStr),
	}
}

// NewEmptyContext returns a Context suitable for tests and for evaluating
// expressions outside of a running query.
func NewEmptyContext() *Context {
	return NewContext(context.Background(), nil)
}
