/*
 * schema.go, part of molrec.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * molrec is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package schema reads and writes molecule records in their schema
//(JSON) form, optionally zstd-compressed: a .json file holds the plain
//record, a .json.zst file the same bytes behind a zstd frame.
package schema

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rmera/molrec"
)

const (
	errOpen   = "schema: cannot open file"
	errCreate = "schema: cannot create file"
	errEncode = "schema: cannot encode record"
	errDecode = "schema: cannot decode record"
)

//Error is the schema implementation of the molrec Error interface.
type Error struct {
	message  string
	filename string
	deco     []string
}

func (err Error) Error() string {
	if err.filename != "" {
		return err.message + " " + err.filename
	}
	return err.message
}

//Decorate adds the dec string to the decoration slice of strings of
//the error, and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Options controls serialization. The zero value writes compact JSON.
type Options struct {
	Indent bool
}

//DefaultOptions returns options for human-readable files.
func DefaultOptions() *Options {
	return &Options{Indent: true}
}

//Write serializes rec to w in schema form.
func Write(w io.Writer, rec *molrec.Record, o *Options) error {
	enc := json.NewEncoder(w)
	if o != nil && o.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(rec); err != nil {
		return Error{message: errEncode + ": " + err.Error()}
	}
	return nil
}

//Read parses one schema record from r and canonicalizes it.
func Read(r io.Reader) (*molrec.Molecule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Error{message: errDecode + ": " + err.Error()}
	}
	return molrec.FromSchema(data)
}

//WriteFile writes rec to path. A path ending in .zst gets a
//zstd-compressed record.
func WriteFile(path string, rec *molrec.Record, o *Options) error {
	f, err := os.Create(path)
	if err != nil {
		return Error{message: errCreate, filename: path}
	}
	defer f.Close()
	var w io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return Error{message: errCreate + ": " + err.Error(), filename: path}
		}
		defer zw.Close()
		w = zw
	}
	return Write(w, rec, o)
}

//ReadFile reads one record from path, decompressing when the path
//ends in .zst.
func ReadFile(path string) (*molrec.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Error{message: errOpen, filename: path}
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, Error{message: errDecode + ": " + err.Error(), filename: path}
		}
		defer zr.Close()
		r = zr
	}
	return Read(r)
}
