package brc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
)

func runProcess(t *testing.T, data string, cfg Config) *Result {
	t.Helper()
	res, err := Process(context.Background(), bytes.NewReader([]byte(data)), int64(len(data)), cfg)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	return res
}

func reportOf(t *testing.T, res *Result) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WriteReport(&buf, res.Stations); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	return buf.String()
}

func TestProcessKnownInputs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		rows uint64
	}{
		{
			name: "two stations",
			in:   "A;10.0\nB;20.0\nA;30.0\n",
			want: "A=10.0/20.0/30.0\nB=20.0/20.0/20.0\n",
			rows: 3,
		},
		{
			name: "single negative record",
			in:   "X;-5.5\n",
			want: "X=-5.5/-5.5/-5.5\n",
			rows: 1,
		},
		{
			name: "empty input",
			in:   "",
			want: "",
			rows: 0,
		},
		{
			name: "crlf records",
			in:   "A;1.0\r\nB;2.0\r\n",
			want: "A=1.0/1.0/1.0\nB=2.0/2.0/2.0\n",
			rows: 2,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runProcess(t, tc.in, Config{Workers: 4})
			if res.Rows != tc.rows {
				t.Errorf("Rows = %d, want %d", res.Rows, tc.rows)
			}
			if got := reportOf(t, res); got != tc.want {
				t.Errorf("report mismatch:\n%s", diff.LineDiff(tc.want, got))
			}
		})
	}
}

func TestProcessNoTrailingNewline(t *testing.T) {
	res := runProcess(t, "A;1.0\nB;2.0", Config{Workers: 4})
	if res.Rows != 2 {
		t.Errorf("Rows = %d, want 2", res.Rows)
	}
	want := "A=1.0/1.0/1.0\nB=2.0/2.0/2.0\n"
	if got := reportOf(t, res); got != want {
		t.Errorf("report mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestProcessMalformed(t *testing.T) {
	in := "A;1.0\nnodelimiter\nB;x\n;5.0\nC;2.0\n\nD;3.0\n"
	res := runProcess(t, in, Config{Workers: 2})
	if res.Rows != 3 {
		t.Errorf("Rows = %d, want 3", res.Rows)
	}
	if res.Malformed != 3 {
		t.Errorf("Malformed = %d, want 3", res.Malformed)
	}
	if len(res.Stations) != 3 {
		t.Errorf("stations = %d, want 3", len(res.Stations))
	}
	if _, ok := res.Stations["B"]; ok {
		t.Error("station B aggregated from an unparseable value")
	}
}

// TestProcessSeams sweeps the chunk size so that over the sweep a chunk
// boundary falls at every interesting offset within a record: mid-name,
// on the separator, mid-value, on the terminator. Every run must agree
// with the sequential path. Chunk and overlap never go below the longest
// record, which is the documented floor for both.
func TestProcessSeams(t *testing.T) {
	records := []string{
		"a;1", "bb;2.5", "ccc;-3.25", "dddd;4", "e;5.5",
		"ff;-0.5", "a;2", "bb;-2.5", "longer-name;9.75", "x;0.25",
	}
	maxRec := 0
	for _, r := range records {
		maxRec = max(maxRec, len(r)+1)
	}

	for _, data := range []string{
		strings.Join(records, "\n") + "\n",
		strings.Join(records, "\n"), // unterminated final record
	} {
		want, err := Aggregate(strings.NewReader(data))
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		wantReport := reportOf(t, want)

		for chunk := maxRec; chunk <= len(data)+2; chunk++ {
			for _, overlap := range []int{maxRec, 64} {
				for _, workers := range []int{1, 2, 3, 8} {
					cfg := Config{
						ChunkSize: int64(chunk),
						Overlap:   int64(overlap),
						Workers:   workers,
					}
					res := runProcess(t, data, cfg)
					if res.Rows != want.Rows {
						t.Fatalf("chunk %d overlap %d workers %d: Rows = %d, want %d",
							chunk, overlap, workers, res.Rows, want.Rows)
					}
					if got := reportOf(t, res); got != wantReport {
						t.Fatalf("chunk %d overlap %d workers %d: report mismatch:\n%s",
							chunk, overlap, workers, diff.LineDiff(wantReport, got))
					}
				}
			}
		}
	}
}

// makeRandomInput builds a deterministic measurement file. Values are
// half steps, which parse to exact doubles and whose sums stay exact at
// this scale, so parallel and sequential aggregates agree bit for bit
// no matter how the records are grouped across workers.
func makeRandomInput(rows int, seed int64) string {
	names := []string{"a", "Zürich", "São Paulo", "Hamburg", "N" + strings.Repeat("n", 99)}
	for i := 0; i < 45; i++ {
		names = append(names, fmt.Sprintf("city-%02d", i))
	}

	r := rand.New(rand.NewSource(seed))
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		v := float64(r.Intn(399)-199) / 2
		sb.WriteString(names[r.Intn(len(names))])
		sb.WriteByte(';')
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestProcessMatchesSequential(t *testing.T) {
	data := makeRandomInput(20_000, 42)

	want, err := Aggregate(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	wantReport := reportOf(t, want)

	for _, workers := range []int{1, 2, 8} {
		res := runProcess(t, data, Config{ChunkSize: 4096, Workers: workers})
		if res.Rows != want.Rows || res.Malformed != want.Malformed {
			t.Errorf("workers %d: rows %d/%d malformed %d/%d",
				workers, res.Rows, want.Rows, res.Malformed, want.Malformed)
		}
		if got := reportOf(t, res); got != wantReport {
			t.Errorf("workers %d: report mismatch:\n%s",
				workers, diff.LineDiff(wantReport, got))
		}
	}
}

type errReaderAt struct{ err error }

func (r errReaderAt) ReadAt([]byte, int64) (int, error) { return 0, r.err }

func TestProcessReadError(t *testing.T) {
	sentinel := errors.New("disk gone")
	res, err := Process(context.Background(), errReaderAt{sentinel}, 1<<20, Config{Workers: 4})
	if res != nil {
		t.Errorf("got partial result %+v, want nil", res)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want wrapped %v", err, sentinel)
	}
}

func TestProcessContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := []byte("A;1.0\n")
	res, err := Process(ctx, bytes.NewReader(data), int64(len(data)), Config{Workers: 2})
	if res != nil {
		t.Errorf("got result %+v, want nil", res)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func BenchmarkProcess(b *testing.B) {
	data := []byte(makeRandomInput(200_000, 7))
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Process(context.Background(), bytes.NewReader(data), int64(len(data)),
			Config{ChunkSize: 256 * 1024})
		if err != nil {
			b.Fatal(err)
		}
	}
}
