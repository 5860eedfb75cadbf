package queue

import (
	"reflect"
	"testing"

	"github.com/desertthunder/cadence/internal/models"
)

// tracks builds a slice of tracks with the given IDs.
func tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = models.Track{ID: id, Title: "Track " + id}
	}
	return out
}

func ids(ts []models.Track) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestShuffle(t *testing.T) {
	t.Run("Permutation", func(t *testing.T) {
		in := tracks("a", "b", "c", "d", "e")
		out := Shuffle(in)

		if len(out) != len(in) {
			t.Fatalf("expected %d tracks, got %d", len(in), len(out))
		}

		seen := make(map[string]int)
		for _, track := range out {
			seen[track.ID]++
		}
		for _, track := range in {
			if seen[track.ID] != 1 {
				t.Errorf("track %s should appear exactly once, got %d", track.ID, seen[track.ID])
			}
		}
	})

	t.Run("InputUntouched", func(t *testing.T) {
		in := tracks("a", "b", "c", "d", "e", "f", "g", "h")
		want := ids(in)

		Shuffle(in)

		if !reflect.DeepEqual(ids(in), want) {
			t.Error("shuffle must not mutate its input")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if out := Shuffle(nil); len(out) != 0 {
			t.Errorf("expected empty result, got %v", out)
		}
	})
}

func TestBuild(t *testing.T) {
	t.Run("NoShuffle", func(t *testing.T) {
		in := tracks("a", "b", "c")
		out, start := Build(in, 1, false)

		if !reflect.DeepEqual(ids(out), []string{"a", "b", "c"}) {
			t.Errorf("expected order preserved, got %v", ids(out))
		}
		if start != 1 {
			t.Errorf("expected start index 1, got %d", start)
		}
	})

	t.Run("ShufflePinsSelection", func(t *testing.T) {
		in := tracks("t0", "t1", "t2")

		for i := 0; i < 20; i++ {
			out, start := Build(in, 1, true)

			if start != 0 {
				t.Fatalf("expected start index 0, got %d", start)
			}
			if out[0].ID != "t1" {
				t.Fatalf("selected track must play first, got %s", out[0].ID)
			}

			rest := map[string]bool{out[1].ID: true, out[2].ID: true}
			if !rest["t0"] || !rest["t2"] {
				t.Fatalf("remaining tracks must be t0 and t2, got %v", ids(out[1:]))
			}
		}
	})

	t.Run("ShuffleEmpty", func(t *testing.T) {
		out, start := Build(nil, 0, true)
		if len(out) != 0 || start != 0 {
			t.Errorf("expected empty queue at index 0, got %v at %d", out, start)
		}
	})
}

func TestNextIndex(t *testing.T) {
	cases := []struct {
		name    string
		current int
		length  int
		mode    models.RepeatMode
		want    int
		ok      bool
	}{
		{"MiddleOff", 0, 3, models.RepeatOff, 1, true},
		{"EndOff", 2, 3, models.RepeatOff, 0, false},
		{"EndAll", 2, 3, models.RepeatAll, 0, true},
		{"MiddleAll", 1, 3, models.RepeatAll, 2, true},
		{"One", 1, 3, models.RepeatOne, 1, true},
		{"OneAtEnd", 2, 3, models.RepeatOne, 2, true},
		{"Empty", 0, 0, models.RepeatAll, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextIndex(tc.current, tc.length, tc.mode)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("NextIndex(%d, %d, %s) = (%d, %v), want (%d, %v)",
					tc.current, tc.length, tc.mode, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestPreviousIndex(t *testing.T) {
	cases := []struct {
		name    string
		current int
		length  int
		mode    models.RepeatMode
		want    int
		ok      bool
	}{
		{"MiddleOff", 2, 3, models.RepeatOff, 1, true},
		{"StartOff", 0, 3, models.RepeatOff, 0, false},
		{"StartAll", 0, 3, models.RepeatAll, 2, true},
		{"One", 1, 3, models.RepeatOne, 1, true},
		{"Empty", 0, 0, models.RepeatAll, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PreviousIndex(tc.current, tc.length, tc.mode)
			if ok != tc.ok || (ok && got != tc.want) {
				t.Errorf("PreviousIndex(%d, %d, %s) = (%d, %v), want (%d, %v)",
					tc.current, tc.length, tc.mode, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestSequenceEdits(t *testing.T) {
	t.Run("InsertRemoveRoundTrip", func(t *testing.T) {
		original := tracks("a", "b", "c", "d")
		items := tracks("x", "y")

		inserted := InsertAt(original, items, 2)
		if !reflect.DeepEqual(ids(inserted), []string{"a", "b", "x", "y", "c", "d"}) {
			t.Fatalf("unexpected insert result: %v", ids(inserted))
		}

		restored := RemoveAt(RemoveAt(inserted, 2), 2)
		if !reflect.DeepEqual(ids(restored), ids(original)) {
			t.Errorf("expected round trip to restore %v, got %v", ids(original), ids(restored))
		}
	})

	t.Run("InsertClamps", func(t *testing.T) {
		out := InsertAt(tracks("a"), tracks("b"), 99)
		if !reflect.DeepEqual(ids(out), []string{"a", "b"}) {
			t.Errorf("expected clamp to append, got %v", ids(out))
		}

		out = InsertAt(tracks("a"), tracks("b"), -1)
		if !reflect.DeepEqual(ids(out), []string{"b", "a"}) {
			t.Errorf("expected clamp to prepend, got %v", ids(out))
		}
	})

	t.Run("Append", func(t *testing.T) {
		out := Append(tracks("a"), tracks("b", "c"))
		if !reflect.DeepEqual(ids(out), []string{"a", "b", "c"}) {
			t.Errorf("unexpected append result: %v", ids(out))
		}
	})

	t.Run("RemoveOutOfRange", func(t *testing.T) {
		in := tracks("a", "b")
		out := RemoveAt(in, 5)
		if !reflect.DeepEqual(ids(out), ids(in)) {
			t.Errorf("out-of-range removal should copy unchanged, got %v", ids(out))
		}
	})

	t.Run("MoveWithin", func(t *testing.T) {
		in := tracks("a", "b", "c", "d")

		out := MoveWithin(in, 0, 2)
		if !reflect.DeepEqual(ids(out), []string{"b", "c", "a", "d"}) {
			t.Errorf("unexpected move result: %v", ids(out))
		}

		out = MoveWithin(in, 3, 0)
		if !reflect.DeepEqual(ids(out), []string{"d", "a", "b", "c"}) {
			t.Errorf("unexpected move result: %v", ids(out))
		}

		// Input untouched by edits.
		if !reflect.DeepEqual(ids(in), []string{"a", "b", "c", "d"}) {
			t.Error("edits must not mutate their input")
		}
	})
}
