// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	errNotStructPointer = errors.New("expected a pointer to a struct")
	errUnsupportedType  = errors.New("unsupported field type")
)

var durationType = reflect.TypeFor[time.Duration]()

// readEnv sets the fields of the struct pointed to by target from the
// variables named in their `env` tags, descending into nested structs.
//
// A variable only replaces a value that is still zero, unless the tag
// carries the "overwrite" option. Unset variables leave fields alone.
func readEnv(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", errNotStructPointer, target)
	}

	return readEnvStruct(v.Elem())
}

func readEnvStruct(v reflect.Value) error {
	t := v.Type()

	for i := range v.NumField() {
		field, info := v.Field(i), t.Field(i)
		if !field.CanSet() {
			continue
		}

		tag, hasTag := info.Tag.Lookup("env")
		if !hasTag {
			if field.Kind() == reflect.Struct {
				if err := readEnvStruct(field); err != nil {
					return err
				}
			}

			continue
		}

		name, opts, _ := strings.Cut(tag, ",")

		raw, set := os.LookupEnv(name)
		if !set || (opts != "overwrite" && !field.IsZero()) {
			continue
		}

		if err := setFromEnv(field, raw); err != nil {
			return fmt.Errorf("%s (%s=%q): %w", info.Name, name, raw, err)
		}
	}

	return nil
}

// setFromEnv parses raw into field. String slices are comma separated and
// drop empty entries.
func setFromEnv(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}

		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.CanInt():
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}

		field.SetInt(n)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}

		field.SetBool(b)
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		var items []string

		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}

		field.Set(reflect.ValueOf(items).Convert(field.Type()))
	default:
		return fmt.Errorf("%w %s", errUnsupportedType, field.Type())
	}

	return nil
}
