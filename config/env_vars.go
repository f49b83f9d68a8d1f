// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const minQuotedValueLength = 2

var (
	errExpectedPointerToStruct = errors.New("expected a pointer to a struct")
	errUnsupportedSliceType    = errors.New("unsupported slice type")
	errUnsupportedFieldType    = errors.New("unsupported field type")
)

// lookupFunc reports the value of an environment variable.
type lookupFunc func(key string) (string, bool)

// readEnv populates dst from the variables named by its `env` tags.
//
// A tag of the form `env:"NAME,overwrite"` replaces values set by defaults or
// the YAML file. Without overwrite, only zero values are filled in.
func readEnv(dst any, lookup lookupFunc) error {
	structValue := reflect.ValueOf(dst)
	if structValue.Kind() != reflect.Ptr {
		return fmt.Errorf("%w, got %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structValue = structValue.Elem()
	if structValue.Kind() != reflect.Struct {
		return fmt.Errorf("%w, got a pointer to %s", errExpectedPointerToStruct, structValue.Kind())
	}

	structType := structValue.Type()

	for fieldIndex := range structValue.NumField() {
		field := structValue.Field(fieldIndex)
		fieldType := structType.Field(fieldIndex)

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			if field.Kind() == reflect.Struct && field.CanAddr() && fieldType.IsExported() {
				if err := readEnv(field.Addr().Interface(), lookup); err != nil {
					return err
				}
			}

			continue
		}

		envVarName, options, _ := strings.Cut(tag, ",")
		overwrite := slices.Contains(strings.Split(options, ","), "overwrite")

		envValue, exists := lookup(envVarName)
		if !exists || !field.CanSet() {
			continue
		}

		if !overwrite && !field.IsZero() {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("%s from env var %s (%q): %w", fieldType.Name, envVarName, envValue, err)
		}
	}

	return nil
}

var durationType = reflect.TypeFor[time.Duration]()

// setFieldValue parses value into field according to its kind.
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("failed to parse duration: %w", err)
			}

			field.SetInt(int64(d))

			return nil
		}

		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}

		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}

		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return errUnsupportedSliceType
		}

		values := []string{}

		for v := range strings.SplitSeq(value, ",") {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				values = append(values, trimmed)
			}
		}

		field.Set(reflect.ValueOf(values))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFieldType, field.Kind())
	}

	return nil
}

// useDotEnv loads environment variables from a .env file, checking
// the current working directory, then the directory of the binary.
//
// This function soft fails if the .env file doesn't exist in either location.
func useDotEnv() error {
	candidates := []string{}

	if cwd, err := os.Getwd(); err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}

	for _, envPath := range candidates {
		data, err := os.ReadFile(envPath) // #nosec G304 - envPath comes from known safe sources
		if os.IsNotExist(err) {
			continue
		}

		if err != nil {
			log.Warn().
				Err(err).
				Str("path", envPath).
				Msg("Could not read .env file")

			return nil
		}

		for key, value := range parseDotEnv(envPath, data) {
			// Only set if not already defined
			if os.Getenv(key) != "" {
				continue
			}

			if err := os.Setenv(key, value); err != nil {
				log.Warn().
					Err(err).
					Str("key", key).
					Msg("Could not set environment variable")
			}
		}

		log.Info().
			Str("path", envPath).
			Msg("Loaded configuration from .env file")

		return nil
	}

	log.Info().Msg("No .env file found, skipping")

	return nil
}

// parseDotEnv reads KEY=VALUE lines. Blank lines and # comments are
// ignored, and matching quotes around a value are stripped.
func parseDotEnv(envPath string, data []byte) map[string]string {
	vars := map[string]string{}

	for lineNumber, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			log.Warn().
				Str("path", envPath).
				Int("line", lineNumber+1).
				Str("content", line).
				Msg("Invalid format in .env file")

			continue
		}

		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if len(value) >= minQuotedValueLength && value[0] == value[len(value)-1] && (value[0] == '"' || value[0] == '\'') {
			value = value[1 : len(value)-1]
		}

		vars[key] = value
	}

	return vars
}
