// Package serialization reads and writes the .spk checkpoint format: a
// small JSON header describing the tensors, followed by their raw float32
// payloads and guarded by a content checksum.
package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/spikenet-ml/spikenet/internal/tensor"
)

const (
	magic   = "SPKN"
	version = 1
)

var (
	// ErrBadMagic means the stream is not a .spk checkpoint.
	ErrBadMagic = errors.New("not a spikenet checkpoint")
	// ErrVersion means the checkpoint was written by an incompatible format revision.
	ErrVersion = errors.New("unsupported checkpoint version")
	// ErrChecksum means the payload does not match the recorded digest.
	ErrChecksum = errors.New("checkpoint payload corrupted")
)

// TensorMeta locates one tensor inside the payload section.
type TensorMeta struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

type header struct {
	Version  int          `json:"version"`
	Tensors  []TensorMeta `json:"tensors"`
	Checksum string       `json:"checksum"`
}

// Write serializes stateDict to w. Tensors are written in sorted name
// order so identical dictionaries produce identical bytes.
func Write(w io.Writer, stateDict map[string]*tensor.RawTensor) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	metas := make([]TensorMeta, 0, len(names))
	digest := sha256.New()
	var payload []byte
	var offset int64

	for _, name := range names {
		raw := stateDict[name]
		data := raw.Data()
		buf := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
		digest.Write(buf)
		payload = append(payload, buf...)
		metas = append(metas, TensorMeta{
			Name:   name,
			Shape:  append([]int(nil), raw.Shape()...),
			Offset: offset,
			Size:   int64(len(buf)),
		})
		offset += int64(len(buf))
	}

	headerJSON, err := json.Marshal(header{
		Version:  version,
		Tensors:  metas,
		Checksum: hex.EncodeToString(digest.Sum(nil)),
	})
	if err != nil {
		return errors.Wrap(err, "encode checkpoint header")
	}

	if _, err := w.Write([]byte(magic)); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(headerJSON)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "write checkpoint")
	}
	return nil
}

// Read deserializes a checkpoint from r and returns its state dictionary.
func Read(r io.Reader) (map[string]*tensor.RawTensor, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return nil, errors.Wrap(err, "read checkpoint")
	}
	if string(magicBuf[:]) != magic {
		return nil, ErrBadMagic
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "read checkpoint header")
	}
	headerJSON := make([]byte, binary.LittleEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, errors.Wrap(err, "read checkpoint header")
	}
	var h header
	if err := json.Unmarshal(headerJSON, &h); err != nil {
		return nil, errors.Wrap(err, "decode checkpoint header")
	}
	if h.Version != version {
		return nil, errors.Wrapf(ErrVersion, "version %d", h.Version)
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read checkpoint payload")
	}
	sum := sha256.Sum256(payload)
	if hex.EncodeToString(sum[:]) != h.Checksum {
		return nil, ErrChecksum
	}

	stateDict := make(map[string]*tensor.RawTensor, len(h.Tensors))
	for _, meta := range h.Tensors {
		end := meta.Offset + meta.Size
		if meta.Offset < 0 || end > int64(len(payload)) {
			return nil, errors.Errorf("tensor %q: payload range [%d, %d) out of bounds", meta.Name, meta.Offset, end)
		}
		shape := tensor.Shape(meta.Shape)
		if int64(shape.NumElements())*4 != meta.Size {
			return nil, errors.Errorf("tensor %q: shape %v does not match %d payload bytes", meta.Name, shape, meta.Size)
		}
		raw, err := tensor.NewRaw(shape, tensor.CPU)
		if err != nil {
			return nil, errors.Wrapf(err, "tensor %q", meta.Name)
		}
		data := raw.Data()
		buf := payload[meta.Offset:end]
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
		}
		stateDict[meta.Name] = raw
	}
	return stateDict, nil
}

// Save writes stateDict to a checkpoint file at path.
func Save(path string, stateDict map[string]*tensor.RawTensor) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := Write(f, stateDict); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", path)
	}
	klog.V(2).Infof("saved %d tensors to %s", len(stateDict), path)
	return nil
}

// Load reads a checkpoint file from path.
func Load(path string) (map[string]*tensor.RawTensor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	stateDict, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return stateDict, nil
}
