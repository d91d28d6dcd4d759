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

import (
	"fmt"
	"time"
)

// Catalog years are bounded to the range movie year extraction recognizes.
const (
	MinCatalogYear = 1888 // first motion picture
	maxYearSlack   = 5    // allow near-future release dates
)

// ValidateMovie validates a Movie according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Year, when set, must be plausible for a film catalog
//
// NOT validated (populated at seed time):
//   - Vector (can be empty until embedded)
//   - ID (0 is valid before content hashing)
func ValidateMovie(movie *Movie) error {
	if movie == nil {
		return fmt.Errorf("%w: movie is nil", ErrInvalidMovie)
	}

	if movie.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMovie, ErrEmptyTitle)
	}

	if movie.Year != 0 {
		maxYear := time.Now().Year() + maxYearSlack
		if movie.Year < MinCatalogYear || movie.Year > maxYear {
			return fmt.Errorf("%w: %w: %d", ErrInvalidMovie, ErrInvalidYear, movie.Year)
		}
	}

	return nil
}

// ValidateActionType validates that an ActionType has a valid value.
func ValidateActionType(action ActionType) error {
	switch action {
	case ActionClick, ActionView, ActionLike:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidAction, action)
	}
}
