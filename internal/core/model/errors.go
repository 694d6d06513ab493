// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"errors"
	"fmt"
)

// Errors a chart load can end with. The loaders treat them all alike: log,
// abort the render attempt and leave the page as it was.
var (
	ErrTransport     = errors.New("stats request failed")
	ErrStatus        = errors.New("stats endpoint returned a non-success status")
	ErrDecode        = errors.New("stats response could not be decoded")
	ErrEmptyStats    = errors.New("no statistics available")
	ErrMissingTarget = errors.New("chart target missing from page")
	ErrStaleResponse = errors.New("response superseded by a newer request")
)

// StatusError carries the HTTP status of a failed stats request.
// It matches ErrStatus with errors.Is.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrStatus.Error(), e.Endpoint, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}
