package option

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Option is one scoped option and its current value.
type Option struct {
	Name  string
	Abbr  string
	Type  Type
	Scope Scope
	// Items lists the accepted values of an Enum or Set option, or the
	// accepted characters of a CharSet option (one per element).
	Items []string

	flag bool
	num  int
	str  string
	list []string

	def string
}

// Descriptor returns the descriptor of o.
func (o *Option) Descriptor() Descriptor {
	return Descriptor{Name: o.Name, Scope: o.Scope, Type: o.Type}
}

// Value returns the current value: bool for Bool, int for Int, []string for
// StringList and Set, and string otherwise.
func (o *Option) Value() any {
	switch o.Type {
	case Bool:
		return o.flag
	case Int:
		return o.num
	case StringList, Set:
		return slices.Clone(o.list)
	default:
		return o.str
	}
}

// String returns the current value in the text form accepted by [Option.Set].
func (o *Option) String() string {
	switch o.Type {
	case Bool:
		return strconv.FormatBool(o.flag)
	case Int:
		return strconv.Itoa(o.num)
	case StringList, Set:
		return strings.Join(o.list, ",")
	default:
		return o.str
	}
}

// Default returns the text form of the value o was defined with.
func (o *Option) Default() string { return o.def }

// Reset restores the value o was defined with.
func (o *Option) Reset() error { return o.Set(o.def) }

// Set replaces the value of o with the value parsed from text.
// The value is unchanged if text is not valid for the type of o.
func (o *Option) Set(text string) error {
	switch o.Type {
	case Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return o.invalid(text)
		}

		o.flag = b

	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return o.invalid(text)
		}

		o.num = n

	case String:
		o.str = text

	case Enum:
		if !slices.Contains(o.Items, text) {
			return o.invalid(text)
		}

		o.str = text

	case StringList:
		o.list = splitList(text)

	case Set:
		items := splitList(text)
		if !o.accepts(items) {
			return o.invalid(text)
		}

		o.list = o.canonical(items)

	case CharSet:
		chars := splitChars(text)
		if !o.accepts(chars) {
			return o.invalid(text)
		}

		o.str = strings.Join(o.canonical(chars), "")
	}

	return nil
}

// Add combines the value parsed from text into the value of o: numeric
// addition for Int, concatenation for String, union for lists and sets.
func (o *Option) Add(text string) error {
	switch o.Type {
	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return o.invalid(text)
		}

		o.num += n

	case String:
		o.str += text

	case StringList:
		for _, item := range splitList(text) {
			if !slices.Contains(o.list, item) {
				o.list = append(o.list, item)
			}
		}

	case Set:
		items := splitList(text)
		if !o.accepts(items) {
			return o.invalid(text)
		}

		o.list = o.canonical(append(slices.Clone(o.list), items...))

	case CharSet:
		chars := splitChars(text)
		if !o.accepts(chars) {
			return o.invalid(text)
		}

		o.str = strings.Join(o.canonical(append(splitChars(o.str), chars...)), "")

	default:
		return o.unsupported(OpAdd)
	}

	return nil
}

// Remove removes the value parsed from text from the value of o: numeric
// subtraction for Int, difference for lists and sets.
func (o *Option) Remove(text string) error {
	switch o.Type {
	case Int:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return o.invalid(text)
		}

		o.num -= n

	case StringList, Set:
		drop := splitList(text)
		if o.Type == Set && !o.accepts(drop) {
			return o.invalid(text)
		}

		o.list = slices.DeleteFunc(slices.Clone(o.list), func(s string) bool {
			return slices.Contains(drop, s)
		})

	case CharSet:
		drop := splitChars(text)
		if !o.accepts(drop) {
			return o.invalid(text)
		}

		keep := slices.DeleteFunc(splitChars(o.str), func(s string) bool {
			return slices.Contains(drop, s)
		})
		o.str = strings.Join(keep, "")

	default:
		return o.unsupported(OpRemove)
	}

	return nil
}

func (o *Option) accepts(items []string) bool {
	for _, item := range items {
		if !slices.Contains(o.Items, item) {
			return false
		}
	}

	return true
}

// canonical returns the distinct members of items in the order of o.Items.
func (o *Option) canonical(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range o.Items {
		if slices.Contains(items, item) {
			out = append(out, item)
		}
	}

	return out
}

func (o *Option) invalid(text string) error {
	return fmt.Errorf("%w for %s option %s: %q", ErrInvalidValue, o.Type, o.Name, text)
}

func (o *Option) unsupported(op Op) error {
	return fmt.Errorf("%w: %s on %s option %s", ErrUnsupportedOp, op, o.Type, o.Name)
}

func splitList(text string) []string {
	if text == "" {
		return nil
	}

	return strings.Split(text, ",")
}

func splitChars(text string) []string {
	return strings.Split(text, "")
}
