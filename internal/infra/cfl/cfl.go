// Package cfl reads and writes complex-valued multi-dimensional arrays stored
// as a NAME.hdr text header (dimensions) plus a NAME.cfl body of
// little-endian complex64 samples in column-major order.
package cfl

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"os"
	"strconv"
	"strings"
)

const (
	hdrExt = ".hdr"
	cflExt = ".cfl"
)

// maxElements keeps the body size (8 bytes per element) representable as int.
const maxElements = math.MaxInt / 8

// ErrNoDimensions is returned when a header carries no dimension line.
var ErrNoDimensions = errors.New("header has no dimensions")

// ErrTooLarge is returned when the dimensions describe more elements than
// can be addressed.
var ErrTooLarge = errors.New("dimensions too large")

// Array is a dense complex64 array. Data is column-major: the first
// dimension varies fastest.
type Array struct {
	Dims []int
	Data []complex64
}

// Len is the number of elements implied by Dims.
func (a *Array) Len() int {
	return product(a.Dims)
}

// Read loads name.hdr and name.cfl. name is given without extension.
func Read(name string) (*Array, error) {
	dims, err := readHeader(name + hdrExt)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(name + cflExt)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n := product(dims)
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if want := int64(n) * 8; info.Size() != want {
		return nil, fmt.Errorf("%s%s: expected %d bytes for dims %v, got %d", name, cflExt, want, dims, info.Size())
	}

	data := make([]complex64, n)
	buf := make([]float32, 2*n)
	if err := binary.Read(bufio.NewReader(f), binary.LittleEndian, buf); err != nil {
		return nil, fmt.Errorf("%s%s: %w", name, cflExt, err)
	}
	for i := range data {
		data[i] = complex(buf[2*i], buf[2*i+1])
	}
	return &Array{Dims: dims, Data: data}, nil
}

// Write stores a as name.hdr and name.cfl.
func Write(name string, a *Array) error {
	if _, err := checkedProduct(a.Dims); err != nil {
		return err
	}
	if a.Len() != len(a.Data) {
		return fmt.Errorf("dims %v need %d elements, have %d", a.Dims, a.Len(), len(a.Data))
	}

	var hdr strings.Builder
	hdr.WriteString("# Dimensions\n")
	for i, d := range a.Dims {
		if i > 0 {
			hdr.WriteString(" ")
		}
		hdr.WriteString(strconv.Itoa(d))
	}
	hdr.WriteString("\n")
	if err := os.WriteFile(name+hdrExt, []byte(hdr.String()), 0o644); err != nil {
		return err
	}

	f, err := os.Create(name + cflExt)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	buf := make([]float32, 2*len(a.Data))
	for i, v := range a.Data {
		buf[2*i] = real(v)
		buf[2*i+1] = imag(v)
	}
	if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readHeader(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseHeader(f)
}

// parseHeader returns the first non-comment line's dimensions. Other
// sections that may follow are ignored.
func parseHeader(r io.Reader) ([]int, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		dims := make([]int, 0, len(fields))
		for _, field := range fields {
			d, err := strconv.Atoi(field)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("invalid dimension %q", field)
			}
			dims = append(dims, d)
		}
		if _, err := checkedProduct(dims); err != nil {
			return nil, err
		}
		return dims, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNoDimensions
}

// Squeeze returns a view with singleton dimensions removed. The data is shared.
func (a *Array) Squeeze() *Array {
	dims := make([]int, 0, len(a.Dims))
	for _, d := range a.Dims {
		if d != 1 {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 && len(a.Data) == 1 {
		dims = []int{1}
	}
	return &Array{Dims: dims, Data: a.Data}
}

// Magnitude returns |x| per element.
func (a *Array) Magnitude() []float32 {
	out := make([]float32, len(a.Data))
	for i, v := range a.Data {
		out[i] = float32(cmplx.Abs(complex128(v)))
	}
	return out
}

// Real returns the real part per element.
func (a *Array) Real() []float32 {
	out := make([]float32, len(a.Data))
	for i, v := range a.Data {
		out[i] = real(v)
	}
	return out
}

// Stats summarizes one slice of values.
type Stats struct {
	Count int
	Min   float32
	Max   float32
	Mean  float64
}

// SliceStats splits values into consecutive slices of the array's first two
// dimensions and summarizes each. Pixels whose mask value is zero are left
// out; a nil mask keeps everything. The mask must cover one in-plane slice.
func SliceStats(dims []int, values []float32, mask []float32) ([]Stats, error) {
	if _, err := checkedProduct(dims); err != nil {
		return nil, err
	}
	plane, err := planeSize(dims)
	if err != nil {
		return nil, err
	}
	if plane == 0 {
		return nil, nil
	}
	if mask != nil && len(mask) != plane {
		return nil, fmt.Errorf("mask has %d elements, slice has %d", len(mask), plane)
	}

	slices := len(values) / plane
	out := make([]Stats, slices)
	for s := 0; s < slices; s++ {
		st := Stats{Min: float32(math.Inf(1)), Max: float32(math.Inf(-1))}
		var sum float64
		for i, v := range values[s*plane : (s+1)*plane] {
			if mask != nil && mask[i] == 0 {
				continue
			}
			st.Count++
			sum += float64(v)
			if v < st.Min {
				st.Min = v
			}
			if v > st.Max {
				st.Max = v
			}
		}
		if st.Count > 0 {
			st.Mean = sum / float64(st.Count)
		} else {
			st.Min, st.Max = 0, 0
		}
		out[s] = st
	}
	return out, nil
}

// CumulativeContribution returns the running sum of values normalized by the
// total, as used to judge how many principal components to keep.
func CumulativeContribution(values []float32) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += float64(v)
		out[i] = sum
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func planeSize(dims []int) (int, error) {
	if len(dims) > 2 {
		dims = dims[:2]
	}
	return checkedProduct(dims)
}

// checkedProduct is product that fails instead of wrapping around.
func checkedProduct(dims []int) (int, error) {
	if len(dims) == 0 {
		return 0, nil
	}
	n := 1
	for _, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("invalid dimension %d", d)
		}
		if d == 0 {
			return 0, nil
		}
		if n > maxElements/d {
			return 0, fmt.Errorf("%w: %v", ErrTooLarge, dims)
		}
		n *= d
	}
	return n, nil
}

func product(dims []int) int {
	if len(dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
