package state

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	validate       = validator.New()
	namePattern, _ = regexp.Compile("^[0-9A-Za-z._-]+$")
)

func NameValidator(s string) error {
	if !namePattern.MatchString(s) {
		return fmt.Errorf("%s is not a valid name, must match pattern %s", s, namePattern.String())
	}
	if len(s) > 100 {
		return fmt.Errorf("len(\"%s\") = %d > 100 is too long", s, len(s))
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

func ConfigValidator(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	if !cfg.Ip4Prefix.IsValid() || !cfg.Ip4Prefix.Addr().Is4() {
		return fmt.Errorf("ip4_prefix %s is not an IPv4 prefix", cfg.Ip4Prefix)
	}
	if !cfg.Ip6Prefix.IsValid() || !cfg.Ip6Prefix.Addr().Is6() || cfg.Ip6Prefix.Addr().Is4In6() {
		return fmt.Errorf("ip6_prefix %s is not an IPv6 prefix", cfg.Ip6Prefix)
	}
	if cfg.NodeType != "" {
		if _, err := ParseNodeType(cfg.NodeType); err != nil {
			return err
		}
	}
	return nil
}

func TopologyValidator(topo *TopologyFile) error {
	names := make(map[string]struct{})
	for _, node := range topo.Nodes {
		if err := NameValidator(node.Name); err != nil {
			return err
		}
		if _, ok := names[node.Name]; ok {
			return fmt.Errorf("duplicate node name: %s", node.Name)
		}
		names[node.Name] = struct{}{}
		if node.Type != "" {
			t, err := ParseNodeType(node.Type)
			if err != nil {
				return err
			}
			if t == PtpNode {
				return fmt.Errorf("node %s: point-to-point nodes cannot be drawn", node.Name)
			}
		}
	}
	return nil
}

func UrlValidator(s string) error {
	if err := validate.Var(s, "required,url"); err != nil {
		return fmt.Errorf("%q is not a valid url", s)
	}
	return nil
}

func PrefixValidator(s string) error {
	_, err := netip.ParsePrefix(s)
	return err
}

func PathValidator(s string) error {
	if err := validate.Var(s, "required,filepath"); err != nil {
		return fmt.Errorf("%q is not a valid file path", s)
	}
	return nil
}
