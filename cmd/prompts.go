package cmd

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"path/filepath"

	"github.com/encodeous/coretopo/state"
	"github.com/manifoldco/promptui"
)

func promptDefaultStr(label string, def string, validateFunc promptui.ValidateFunc) string {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  validateFunc,
	}
	val, err := prompt.Run()
	if err != nil {
		panic(err)
	}
	return val
}

func promptYN(prefix string, def bool) bool {
	choose := promptui.Select{
		Label:     prefix,
		Items:     []string{"Yes", "No"},
		Size:      2,
		CursorPos: 0,
	}
	if !def {
		choose.CursorPos = 1
	}
	run, _, err := choose.Run()
	if err != nil {
		return false
	}
	return run == 0
}

func promptSelect(label string, items []string, def string) string {
	choose := promptui.Select{
		Label: label,
		Items: items,
	}
	for i, item := range items {
		if item == def {
			choose.CursorPos = i
		}
	}
	_, val, err := choose.Run()
	if err != nil {
		panic(err)
	}
	return val
}

func promptDefaultPrefix(label string, def netip.Prefix) netip.Prefix {
	val := promptDefaultStr(label, def.String(), state.PrefixValidator)
	prefix, err := netip.ParsePrefix(val)
	if err != nil {
		panic(err)
	}
	return prefix
}

func safeSaveFile(path string, name string) string {
Save:
	path, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Where do you want to save the %s?\n", name)
	path = promptDefaultStr("path", path, state.PathValidator)

	if _, err := os.Stat(path); err == nil || !errors.Is(err, os.ErrNotExist) {
		fmt.Printf("Warning: %s file already exists: %s, do you want to overwrite it?\n", name, path)
		res := promptYN("Overwrite?", false)
		if !res {
			goto Save
		}
	}
	return path
}
