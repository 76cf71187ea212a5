package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// SKA format errors.
var (
	ErrInvalidSKAMagic       = errors.New("invalid SKA magic: expected 'SKAF'")
	ErrUnsupportedSKAVersion = errors.New("unsupported SKA version")
	ErrTruncatedSKAData      = errors.New("truncated SKA data")
	ErrUnsortedSKAKeys       = errors.New("animation keys not in ascending time order")
)

const (
	maxSKAChannels = 1024
	maxSKAKeys     = 1 << 16

	skaFlagLoop = 1 << 0
)

// SKAVersion represents the SKA file version.
type SKAVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v SKAVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// SKARotKey is a rotation keyframe.
type SKARotKey struct {
	Time float32
	Quat [4]float32 // x, y, z, w
}

// SKAPosKey is a translation keyframe.
type SKAPosKey struct {
	Time float32
	Pos  [3]float32
}

// SKAChannel holds the keyframes driving one bone. Bones are matched by
// name so clips survive skeleton reordering. An empty channel leaves the
// bone in its rest pose.
type SKAChannel struct {
	Bone    string
	RotKeys []SKARotKey
	PosKeys []SKAPosKey
}

// SKA represents a parsed animation clip.
type SKA struct {
	Version  SKAVersion
	Name     string
	Duration float32 // seconds
	Loop     bool
	Channels []SKAChannel
}

// ChannelFor returns the channel driving the named bone, or nil.
func (a *SKA) ChannelFor(bone string) *SKAChannel {
	for i := range a.Channels {
		if a.Channels[i].Bone == bone {
			return &a.Channels[i]
		}
	}
	return nil
}

// ParseSKA parses an animation clip from raw bytes.
func ParseSKA(data []byte) (*SKA, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedSKAData
	}

	// Check magic "SKAF"
	if string(data[0:4]) != "SKAF" {
		return nil, ErrInvalidSKAMagic
	}

	version := SKAVersion{
		Major: data[4],
		Minor: data[5],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSKAVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("%w: reading name length", ErrTruncatedSKAData)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return nil, fmt.Errorf("%w: reading name", ErrTruncatedSKAData)
	}

	clip := &SKA{
		Version: version,
		Name:    string(nameBytes),
	}

	if err := binary.Read(r, binary.LittleEndian, &clip.Duration); err != nil {
		return nil, fmt.Errorf("%w: reading duration", ErrTruncatedSKAData)
	}
	if clip.Duration <= 0 {
		return nil, fmt.Errorf("invalid SKA duration: %f", clip.Duration)
	}

	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, fmt.Errorf("%w: reading flags", ErrTruncatedSKAData)
	}
	clip.Loop = flags&skaFlagLoop != 0

	var channelCount uint16
	if err := binary.Read(r, binary.LittleEndian, &channelCount); err != nil {
		return nil, fmt.Errorf("%w: reading channel count", ErrTruncatedSKAData)
	}
	if channelCount > maxSKAChannels {
		return nil, fmt.Errorf("invalid SKA channel count: %d", channelCount)
	}

	clip.Channels = make([]SKAChannel, channelCount)
	for i := uint16(0); i < channelCount; i++ {
		channel, err := parseSKAChannel(r)
		if err != nil {
			return nil, fmt.Errorf("parsing channel %d: %w", i, err)
		}
		clip.Channels[i] = channel
	}

	return clip, nil
}

// parseSKAChannel parses a single bone channel.
func parseSKAChannel(r *bytes.Reader) (SKAChannel, error) {
	var channel SKAChannel

	nameBytes := make([]byte, boneNameLen)
	if _, err := io.ReadFull(r, nameBytes); err != nil {
		return SKAChannel{}, fmt.Errorf("%w: reading bone name", ErrTruncatedSKAData)
	}
	channel.Bone = trimName(nameBytes)

	var rotCount uint32
	if err := binary.Read(r, binary.LittleEndian, &rotCount); err != nil {
		return SKAChannel{}, fmt.Errorf("%w: reading rotation key count", ErrTruncatedSKAData)
	}
	if rotCount > maxSKAKeys {
		return SKAChannel{}, fmt.Errorf("invalid rotation key count: %d", rotCount)
	}
	channel.RotKeys = make([]SKARotKey, rotCount)
	for i := uint32(0); i < rotCount; i++ {
		if err := binary.Read(r, binary.LittleEndian, &channel.RotKeys[i]); err != nil {
			return SKAChannel{}, fmt.Errorf("%w: reading rotation key %d", ErrTruncatedSKAData, i)
		}
		if i > 0 && channel.RotKeys[i].Time <= channel.RotKeys[i-1].Time {
			return SKAChannel{}, fmt.Errorf("%w: rotation key %d", ErrUnsortedSKAKeys, i)
		}
	}

	var posCount uint32
	if err := binary.Read(r, binary.LittleEndian, &posCount); err != nil {
		return SKAChannel{}, fmt.Errorf("%w: reading position key count", ErrTruncatedSKAData)
	}
	if posCount > maxSKAKeys {
		return SKAChannel{}, fmt.Errorf("invalid position key count: %d", posCount)
	}
	channel.PosKeys = make([]SKAPosKey, posCount)
	for i := uint32(0); i < posCount; i++ {
		if err := binary.Read(r, binary.LittleEndian, &channel.PosKeys[i]); err != nil {
			return SKAChannel{}, fmt.Errorf("%w: reading position key %d", ErrTruncatedSKAData, i)
		}
		if i > 0 && channel.PosKeys[i].Time <= channel.PosKeys[i-1].Time {
			return SKAChannel{}, fmt.Errorf("%w: position key %d", ErrUnsortedSKAKeys, i)
		}
	}

	return channel, nil
}

// ParseSKAFile parses an animation clip file from disk.
func ParseSKAFile(path string) (*SKA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading SKA file: %w", err)
	}
	return ParseSKA(data)
}
