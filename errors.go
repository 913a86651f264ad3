/*
 * errors.go, part of molrec.
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

package molrec

import "fmt"

//Error is the interface fulfilled by the errors of molrec and its
//subpackages. Decorate adds information to the error as it goes up the
//call stack, and returns the accumulated decorations.
type Error interface {
	Error() string
	Decorate(string) []string
}

//Kinds of validation failure. The kind names the stage of the
//canonicalization pipeline that rejected the input.
const (
	KindShape        = "shape"
	KindGeometry     = "geometry"
	KindNuclei       = "nuclei"
	KindFragments    = "fragments"
	KindChgmult      = "chgmult"
	KindUnits        = "units"
	KindConnectivity = "connectivity"
	KindDialect      = "dialect"
)

//ValidationError reports input that cannot be canonicalized into a
//valid molecule record.
type ValidationError struct {
	Kind    string
	message string
	deco    []string
}

func validationError(kind, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Kind: kind, message: fmt.Sprintf(format, a...)}
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("molrec: validation (%s): %s", err.Kind, err.message)
}

func (err *ValidationError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//LookupError reports a failure to resolve a molecule through an
//external service, such as PubChem. It wraps the underlying cause so
//callers can distinguish a network problem from bad input.
type LookupError struct {
	Name  string
	cause error
	deco  []string
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("molrec: external lookup of %q failed: %v", err.Name, err.cause)
}

func (err *LookupError) Unwrap() error { return err.cause }

func (err *LookupError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate decorates an error if it implements the Error interface,
//and otherwise wraps it so the caller information is not lost.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(Error); ok {
		err2.Decorate(caller)
		return err2
	}
	return fmt.Errorf("%s: %w", caller, err)
}
