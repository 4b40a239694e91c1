// Copyright 2025 Sonic Labs
// This file is part of Dice, the dice expression toolkit for Sonic
//
// Dice is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dice is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Dice. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// addHeaderCommand prepends the license header to files missing it
var addHeaderCommand = cli.Command{
	Action: addHeaderAction,
	Name:   "add",
	Usage:  "Prepends the license header to all .go files in the workspace lacking one",
}

const licenseTemplate = `// Copyright %d Sonic Labs
// This file is part of Dice, the dice expression toolkit for Sonic
//
// Dice is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Dice is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Dice. If not, see <http://www.gnu.org/licenses/>.

`

func addHeaderAction(*cli.Context) error {
	return addHeader(".", time.Now().Year())
}

// addHeader prepends the license header of the given year to every file
// that does not start with a copyright line.
func addHeader(root string, year int) error {
	header := fmt.Sprintf(licenseTemplate, year)
	return rewriteGoFiles(root, func(content string) string {
		if reHeader.MatchString(firstLine(content)) {
			return content
		}
		return header + content
	})
}

func firstLine(content string) string {
	line, _, _ := strings.Cut(content, "\n")
	return line
}

// rewriteGoFiles applies rewrite to every .go file below root and stores the
// files it changed. Hidden directories and those starting with an underscore
// are skipped, as the go tool ignores them.
func rewriteGoFiles(root string, rewrite func(string) string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "cannot read %s", path)
		}
		content := string(data)
		if updated := rewrite(content); updated != content {
			if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
				return errors.Wrapf(err, "cannot write %s", path)
			}
		}
		return nil
	})
}
