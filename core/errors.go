// Copyright 2025 Poiesic Systems
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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidQuery indicates an empty or whitespace-only query.
	// This is the only query input that is rejected; all other inputs
	// degrade to a best-effort Query.
	ErrInvalidQuery = errors.New("invalid query: empty after trimming")

	// ErrInvalidMovie indicates a Movie failed validation.
	ErrInvalidMovie = errors.New("invalid movie")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidYear indicates a year outside the supported catalog range.
	ErrInvalidYear = errors.New("year out of range")

	// ErrInvalidAction indicates an unrecognized interaction action type.
	ErrInvalidAction = errors.New("invalid action type")
)
