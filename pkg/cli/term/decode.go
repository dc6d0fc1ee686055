package term

import (
	"time"

	"src.wl.sh/pkg/ui"
)

// Returned by seqDecoder.next to signal the end of the current sequence.
const runeEndOfSeq rune = -1

// Timeout for bytes in escape sequences. Modern terminal emulators send escape
// sequences very fast, so 10ms is more than sufficient. SSH connections on a
// slow link might be problematic though.
var keySeqTimeout = 10 * time.Millisecond

func readEvent(rd byteReaderWithTimeout) (Event, error) {
	r, err := readRune(rd, -1)
	if err != nil {
		return nil, err
	}
	if r != 0x1b {
		return KeyEvent(ctrlModify(r)), nil
	}
	d := &seqDecoder{rd, string(r)}
	return d.escape()
}

// Decodes the part of an escape sequence after the leading ESC.
type seqDecoder struct {
	rd  byteReaderWithTimeout
	seq string
}

// Reads one more rune of the sequence within keySeqTimeout. It returns
// runeEndOfSeq on any error.
func (d *seqDecoder) next() rune {
	r, err := readRune(d.rd, keySeqTimeout)
	if err != nil {
		return runeEndOfSeq
	}
	d.seq += string(r)
	return r
}

func (d *seqDecoder) bad(msg string) error {
	return seqError{msg, d.seq}
}

func (d *seqDecoder) escape() (Event, error) {
	r := d.next()
	// rxvt and derivatives signal Alt by prepending another ESC to CSI and G3
	// sequences.
	alt := false
	if r == 0x1b {
		alt = true
		r = d.next()
	}
	switch r {
	case runeEndOfSeq:
		// A lone Escape.
		return K('[', ui.Ctrl), nil
	case '[':
		return d.csi(alt)
	case 'O':
		return d.g3(alt)
	}
	k := ctrlModify(r)
	k.Mod |= ui.Alt
	return KeyEvent(k), nil
}

func (d *seqDecoder) csi(alt bool) (Event, error) {
	r := d.next()
	if r == runeEndOfSeq {
		return K('[', ui.Alt), nil
	}
	var nums []int
	for ; r == ';' || ('0' <= r && r <= '9'); r = d.next() {
		if r == ';' {
			nums = append(nums, 0)
			continue
		}
		if len(nums) == 0 {
			nums = append(nums, 0)
		}
		nums[len(nums)-1] = nums[len(nums)-1]*10 + int(r-'0')
	}
	switch {
	case r == runeEndOfSeq:
		return nil, d.bad("incomplete CSI")
	case r == 'R':
		if len(nums) != 2 {
			return nil, d.bad("bad CPR")
		}
		return CursorPosition{nums[0], nums[1]}, nil
	case r == '~' && len(nums) == 1 && (nums[0] == 200 || nums[0] == 201):
		return PasteSetting(nums[0] == 200), nil
	}
	k := parseCSI(nums, r)
	if k == (ui.Key{}) {
		return nil, d.bad("bad CSI")
	}
	if alt {
		k.Mod |= ui.Alt
	}
	return KeyEvent(k), nil
}

func (d *seqDecoder) g3(alt bool) (Event, error) {
	r := d.next()
	if r == runeEndOfSeq {
		// Nothing after 'O'; taken as Alt-O.
		return K('O', ui.Alt), nil
	}
	k, ok := g3Seq[r]
	if !ok {
		return nil, d.bad("bad G3")
	}
	if alt {
		k.Mod |= ui.Alt
	}
	return KeyEvent(k), nil
}

// Reads one UTF-8 encoded rune.
func readRune(rd byteReaderWithTimeout, timeout time.Duration) (rune, error) {
	leader, err := rd.ReadByteWithTimeout(timeout)
	if err != nil {
		return -1, err
	}
	var r rune
	pending := 0
	switch {
	case leader>>7 == 0:
		r = rune(leader)
	case leader>>5 == 0x6:
		r = rune(leader & 0x1f)
		pending = 1
	case leader>>4 == 0xe:
		r = rune(leader & 0xf)
		pending = 2
	case leader>>3 == 0x1e:
		r = rune(leader & 0x7)
		pending = 3
	default:
		return -1, seqError{"bad UTF-8 leading byte", string([]byte{leader})}
	}
	for i := 0; i < pending; i++ {
		b, err := rd.ReadByteWithTimeout(timeout)
		if err != nil {
			return -1, err
		}
		if b>>6 != 0x2 {
			return -1, seqError{"bad UTF-8 continuation byte", string([]byte{leader, b})}
		}
		r = r<<6 + rune(b&0x3f)
	}
	return r, nil
}

// Returns the key a rune stands for, taking Ctrl sequences into account.
func ctrlModify(r rune) ui.Key {
	switch r {
	case 0x0:
		return ui.K('`', ui.Ctrl) // ^@
	case 0x1e:
		return ui.K('6', ui.Ctrl) // ^^
	case 0x1f:
		return ui.K('/', ui.Ctrl) // ^_
	case ui.Tab, ui.Enter, ui.Backspace: // ^I ^J ^?
		// Prefer the non-Ctrl form of ambiguous keys.
		return ui.K(r)
	}
	if 0x1 <= r && r <= 0x1d {
		return ui.K(r+0x40, ui.Ctrl)
	}
	return ui.K(r)
}

// G3-style sequences: \eO followed by exactly one rune. Only Alt can modify
// them, with a leading \e.
var g3Seq = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End), 'M': ui.K(ui.Insert),
	'a': ui.K(ui.Up, ui.Ctrl), 'b': ui.K(ui.Down, ui.Ctrl),
	'c': ui.K(ui.Right, ui.Ctrl), 'd': ui.K(ui.Left, ui.Ctrl),
	'P': ui.K(ui.F1), 'Q': ui.K(ui.F2), 'R': ui.K(ui.F3), 'S': ui.K(ui.F4),
}

// CSI sequences identified by the last rune, like \e[A for Up. A modified
// form carries two numbers, the first being 1, like \e[1;5A for Ctrl-Up.
var csiSeqByLast = map[rune]ui.Key{
	'A': ui.K(ui.Up), 'B': ui.K(ui.Down), 'C': ui.K(ui.Right), 'D': ui.K(ui.Left),
	'a': ui.K(ui.Up, ui.Shift), 'b': ui.K(ui.Down, ui.Shift),
	'c': ui.K(ui.Right, ui.Shift), 'd': ui.K(ui.Left, ui.Shift),
	'H': ui.K(ui.Home), 'F': ui.K(ui.End),
	'Z': ui.K(ui.Tab, ui.Shift),
}

// CSI sequences ending in '~', identified by the first number, like \e[3~ for
// Delete. An optional second number is the modifier. urxvt instead replaces
// the '~' with '$' (Shift), '^' (Ctrl) or '@' (Ctrl-Shift).
var csiSeqTilde = map[int]rune{
	1: ui.Home, 2: ui.Insert, 3: ui.Delete, 4: ui.End,
	5: ui.PageUp, 6: ui.PageDown, 7: ui.Home, 8: ui.End,
	11: ui.F1, 12: ui.F2, 13: ui.F3, 14: ui.F4,
	15: ui.F5, 17: ui.F6, 18: ui.F7, 19: ui.F8,
	20: ui.F9, 21: ui.F10, 23: ui.F11, 24: ui.F12,
}

// CSI sequences of the form \e[27;mod;key~, where key is a code point.
var csiSeqTilde27 = map[int]rune{
	9: '\t', 13: '\r',
	33: '!', 35: '#', 39: '\'', 40: '(', 41: ')', 43: '+', 44: ',', 45: '-',
	46: '.',
	48: '0', 49: '1', 50: '2', 51: '3', 52: '4', 53: '5', 54: '6', 55: '7',
	56: '8', 57: '9',
	58: ':', 59: ';', 60: '<', 61: '=', 62: '>', 63: ';',
}

// Parses a CSI key sequence. It returns the zero Key if the sequence is not
// recognized.
func parseCSI(nums []int, last rune) ui.Key {
	if k, ok := csiSeqByLast[last]; ok {
		switch {
		case len(nums) == 0:
			return k
		case len(nums) == 2 && nums[0] == 1:
			return xtermModify(k, nums[1])
		}
		return ui.Key{}
	}

	switch last {
	case '~':
		if len(nums) == 1 || len(nums) == 2 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				if len(nums) == 1 {
					return ui.K(r)
				}
				return xtermModify(ui.K(r), nums[1])
			}
		} else if len(nums) == 3 && nums[0] == 27 {
			if r, ok := csiSeqTilde27[nums[2]]; ok {
				return xtermModify(ui.K(r), nums[1])
			}
		}
	case '$', '^', '@':
		if len(nums) == 1 {
			if r, ok := csiSeqTilde[nums[0]]; ok {
				mod := map[rune]ui.Mod{'$': ui.Shift, '^': ui.Ctrl, '@': ui.Shift | ui.Ctrl}[last]
				return ui.K(r, mod)
			}
		}
	}
	return ui.Key{}
}

// Applies an xterm modifier number, which is 1 plus a bitmask of Shift (1),
// Alt (2), Ctrl (4) and Meta (8). Meta is treated as Alt.
func xtermModify(k ui.Key, mod int) ui.Key {
	if mod < 0 || mod > 16 {
		return ui.Key{}
	}
	if mod == 0 {
		return k
	}
	flags := mod - 1
	if flags&0x1 != 0 {
		k.Mod |= ui.Shift
	}
	if flags&(0x2|0x8) != 0 {
		k.Mod |= ui.Alt
	}
	if flags&0x4 != 0 {
		k.Mod |= ui.Ctrl
	}
	return k
}
