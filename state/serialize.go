package state

import "fmt"

func (o LinkOrigin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *LinkOrigin) UnmarshalText(text []byte) error {
	switch string(text) {
	case "user":
		*o = UserCreated
	case "hydrated":
		*o = Hydrated
	default:
		return fmt.Errorf("unknown link origin %q", text)
	}
	return nil
}
