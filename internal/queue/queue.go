package queue

import (
	"math/rand"

	"github.com/desertthunder/cadence/internal/models"
)

// Shuffle returns a uniformly random permutation of tracks without mutating
// the input. Fisher-Yates, walking from the last index down.
func Shuffle(tracks []models.Track) []models.Track {
	out := make([]models.Track, len(tracks))
	copy(out, tracks)

	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// Build constructs a playback queue from tracks. When shuffle is off the
// queue is a copy of the input with startIndex unchanged. When shuffle is
// on, the track at startIndex is pinned to position 0 and the rest are
// shuffled behind it, so shuffling never changes what plays first; the
// returned start index is then always 0.
func Build(tracks []models.Track, startIndex int, shuffle bool) ([]models.Track, int) {
	if !shuffle {
		out := make([]models.Track, len(tracks))
		copy(out, tracks)
		return out, startIndex
	}

	if len(tracks) == 0 {
		return []models.Track{}, 0
	}

	if startIndex < 0 || startIndex >= len(tracks) {
		startIndex = 0
	}

	rest := make([]models.Track, 0, len(tracks)-1)
	rest = append(rest, tracks[:startIndex]...)
	rest = append(rest, tracks[startIndex+1:]...)

	out := make([]models.Track, 0, len(tracks))
	out = append(out, tracks[startIndex])
	out = append(out, Shuffle(rest)...)

	return out, 0
}

// NextIndex resolves the index that follows current for a queue of the
// given length. The second return is false when the queue is exhausted
// (or empty) and playback should stop.
func NextIndex(current, length int, mode models.RepeatMode) (int, bool) {
	if length == 0 {
		return 0, false
	}

	if mode == models.RepeatOne {
		return current, true
	}

	if current >= length-1 {
		if mode == models.RepeatAll {
			return 0, true
		}
		return 0, false
	}

	return current + 1, true
}

// PreviousIndex resolves the index preceding current, symmetric to
// [NextIndex]: repeat-one stays put, repeat-all wraps from the first
// track to the last, and otherwise the start of the queue is a wall.
func PreviousIndex(current, length int, mode models.RepeatMode) (int, bool) {
	if length == 0 {
		return 0, false
	}

	if mode == models.RepeatOne {
		return current, true
	}

	if current <= 0 {
		if mode == models.RepeatAll {
			return length - 1, true
		}
		return 0, false
	}

	return current - 1, true
}

// InsertAt returns a new sequence with items spliced in at position.
// Positions outside [0, len(tracks)] are clamped.
func InsertAt(tracks, items []models.Track, position int) []models.Track {
	if position < 0 {
		position = 0
	}
	if position > len(tracks) {
		position = len(tracks)
	}

	out := make([]models.Track, 0, len(tracks)+len(items))
	out = append(out, tracks[:position]...)
	out = append(out, items...)
	out = append(out, tracks[position:]...)
	return out
}

// Append returns a new sequence with items added at the end.
func Append(tracks, items []models.Track) []models.Track {
	return InsertAt(tracks, items, len(tracks))
}

// RemoveAt returns a new sequence without the element at index. An
// out-of-range index returns an unchanged copy.
func RemoveAt(tracks []models.Track, index int) []models.Track {
	if index < 0 || index >= len(tracks) {
		out := make([]models.Track, len(tracks))
		copy(out, tracks)
		return out
	}

	out := make([]models.Track, 0, len(tracks)-1)
	out = append(out, tracks[:index]...)
	out = append(out, tracks[index+1:]...)
	return out
}

// MoveWithin returns a new sequence with the element at from relocated to
// to, preserving the relative order of everything else. Out-of-range
// arguments return an unchanged copy.
func MoveWithin(tracks []models.Track, from, to int) []models.Track {
	if from < 0 || from >= len(tracks) || to < 0 || to >= len(tracks) {
		out := make([]models.Track, len(tracks))
		copy(out, tracks)
		return out
	}

	out := RemoveAt(tracks, from)
	return InsertAt(out, []models.Track{tracks[from]}, to)
}
