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


// Package retrieval runs the dual-channel candidate search.
//
// The Retriever fans a normalized query out to two independent
// channels: a semantic channel that embeds the query text and searches
// the catalog's vector index, and a lexical channel that scores
// weighted keyword overlap against each movie's title, genres and
// overview. The channels run concurrently under a shared deadline.
//
// Failure of a single channel degrades the result to the surviving
// channel. Only when both fail does Retrieve return
// ErrRetrievalUnavailable.
package retrieval
