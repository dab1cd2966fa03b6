package pitch

import (
	"fmt"
	"math"
)

const (
	// ReferenceFrequency is A4
	ReferenceFrequency = 440.0
	// ReferenceMidi is the MIDI number of A4
	ReferenceMidi = 69

	// MaxMidi is the highest MIDI number a reading may carry
	MaxMidi = 126
)

// NoteNames holds the note names in chromatic order starting at C
var NoteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note represents a musical note reading
type Note struct {
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Midi      int     // MIDI number, 69 = A4
	Frequency float64 // Measured frequency in Hz
	Cents     int     // Deviation from the equal-tempered pitch, in (-50, 50]
}

// String returns the scientific pitch name, e.g. "A#4"
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// semitonesFromMidiZero returns the fractional MIDI position of frequency
func semitonesFromMidiZero(frequency float64) float64 {
	return 12*math.Log2(frequency/ReferenceFrequency) + ReferenceMidi
}

// MidiFromFrequency returns the nearest MIDI number for frequency.
// A frequency exactly between two notes resolves to the lower one.
func MidiFromFrequency(frequency float64) int {
	return int(math.Ceil(semitonesFromMidiZero(frequency) - 0.5))
}

// FrequencyFromMidi returns the equal-tempered frequency of a MIDI number
func FrequencyFromMidi(midi int) float64 {
	return ReferenceFrequency * math.Pow(2, float64(midi-ReferenceMidi)/12)
}

// ToNote converts a frequency to the nearest note and its cents offset.
// It returns ErrOutOfRange for non-positive or non-finite frequencies and
// for notes outside MIDI 0..MaxMidi.
func ToNote(frequency float64) (*Note, error) {
	if !(frequency > 0) || math.IsInf(frequency, 0) {
		return nil, ErrOutOfRange
	}

	midi := MidiFromFrequency(frequency)
	cents := int(math.Round(1200 * math.Log2(frequency/FrequencyFromMidi(midi))))

	// Rounding can land on -50; the same pitch is +50 above the note below.
	if cents <= -50 {
		midi--
		cents = 50
	}

	if midi < 0 || midi > MaxMidi {
		return nil, ErrOutOfRange
	}

	return &Note{
		Name:      NoteNames[((midi%12)+12)%12],
		Octave:    int(math.Floor(float64(midi)/12)) - 1,
		Midi:      midi,
		Frequency: frequency,
		Cents:     cents,
	}, nil
}
