package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the records that cross a storage
// boundary (catalog entries and cached ranked results). Field order is
// the struct declaration order; changing either breaks stored data.

var (
	// IDMUS serializes IDs.
	IDMUS = idMUS{}
	// MovieMUS serializes catalog records.
	MovieMUS = movieMUS{}
	// CandidateItemMUS serializes retrieval candidates.
	CandidateItemMUS = candidateItemMUS{}
	// RankedResultMUS serializes cached search results.
	RankedResultMUS = rankedResultMUS{}

	float32SliceMUS = ord.NewSliceSer[float32](varint.Float32)
	stringSliceMUS  = ord.NewSliceSer[string](ord.String)
	candidatesMUS   = ord.NewSliceSer[CandidateItem](CandidateItemMUS)
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type movieMUS struct{}

func (s movieMUS) Marshal(v Movie, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += stringSliceMUS.Marshal(v.Genres, bs[n:])
	n += varint.Int.Marshal(v.Year, bs[n:])
	n += varint.Float32.Marshal(v.Popularity, bs[n:])
	n += ord.String.Marshal(v.Overview, bs[n:])
	n += float32SliceMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s movieMUS) Unmarshal(bs []byte) (v Movie, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Genres, n1, err = stringSliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Year, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Popularity, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Overview, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Vector, n1, err = float32SliceMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s movieMUS) Size(v Movie) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += stringSliceMUS.Size(v.Genres)
	size += varint.Int.Size(v.Year)
	size += varint.Float32.Size(v.Popularity)
	size += ord.String.Size(v.Overview)
	size += float32SliceMUS.Size(v.Vector)
	return size
}

func (s movieMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type candidateItemMUS struct{}

func (s candidateItemMUS) Marshal(v CandidateItem, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Float32.Marshal(v.SemanticScore, bs[n:])
	n += varint.Float32.Marshal(v.LexicalScore, bs[n:])
	n += varint.Float32.Marshal(v.Combined, bs[n:])
	n += varint.Byte.Marshal(byte(v.Channels), bs[n:])
	n += MovieMUS.Marshal(v.Movie, bs[n:])
	return n
}

func (s candidateItemMUS) Unmarshal(bs []byte) (v CandidateItem, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.SemanticScore, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.LexicalScore, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Combined, n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var ch byte
	if ch, n1, err = varint.Byte.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Channels = Channel(ch)
	if v.Movie, n1, err = MovieMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (s candidateItemMUS) Size(v CandidateItem) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Float32.Size(v.SemanticScore)
	size += varint.Float32.Size(v.LexicalScore)
	size += varint.Float32.Size(v.Combined)
	size += varint.Byte.Size(byte(v.Channels))
	size += MovieMUS.Size(v.Movie)
	return size
}

func (s candidateItemMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type rankedResultMUS struct{}

func (s rankedResultMUS) Marshal(v RankedResult, bs []byte) (n int) {
	n = candidatesMUS.Marshal(v.Items, bs)
	n += ord.String.Marshal(v.Stage, bs[n:])
	n += ord.Bool.Marshal(v.QueryRewritten, bs[n:])
	n += varint.Int.Marshal(int(v.CacheStatus), bs[n:])
	n += varint.Int64.Marshal(int64(v.Elapsed/time.Microsecond), bs[n:])
	return n
}

func (s rankedResultMUS) Unmarshal(bs []byte) (v RankedResult, n int, err error) {
	var n1 int
	if v.Items, n, err = candidatesMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Stage, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.QueryRewritten, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var status int
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CacheStatus = CacheStatus(status)
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.Elapsed = time.Duration(micros) * time.Microsecond
	return v, n, nil
}

func (s rankedResultMUS) Size(v RankedResult) (size int) {
	size = candidatesMUS.Size(v.Items)
	size += ord.String.Size(v.Stage)
	size += ord.Bool.Size(v.QueryRewritten)
	size += varint.Int.Size(int(v.CacheStatus))
	size += varint.Int64.Size(int64(v.Elapsed / time.Microsecond))
	return size
}

func (s rankedResultMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
