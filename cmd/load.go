/*
Copyright © 2021 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hitzhangjie/minisym/pkg/symfile"
)

// loadSymbolFile reads and parses one symbol file into a module.
func loadSymbolFile(path string) (*symfile.Module, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	module := symfile.New(filepath.Base(path))
	if !module.LoadFromMemory(buf) {
		return nil, fmt.Errorf("load symbol file %s failed", path)
	}
	return module, nil
}

// parseAddress converts a hex string in either 0xABC123 or ABC123 form.
func parseAddress(addr string) (uint64, error) {
	addr = strings.TrimPrefix(addr, "0x")
	return strconv.ParseUint(addr, 16, 64)
}
