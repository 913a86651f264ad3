/*
 * pubchem.go, part of molrec.
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

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const pubchemURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug/compound/name/%s/record/JSON?record_type=3d"

//pubchemTimeout bounds the whole lookup when the caller gives no
//deadline of their own.
const pubchemTimeout = 30 * time.Second

//The part of a PUG REST record this library reads.
type pubchemRecord struct {
	PCCompounds []struct {
		Atoms struct {
			Element []int `json:"element"`
		} `json:"atoms"`
		Coords []struct {
			Conformers []struct {
				X []float64 `json:"x"`
				Y []float64 `json:"y"`
				Z []float64 `json:"z"`
			} `json:"conformers"`
		} `json:"coords"`
	} `json:"PC_Compounds"`
}

//PubChem resolves a compound name through the PubChem PUG REST service
//and returns the arrays for its 3D record (coordinates in angstrom, as
//the service reports them). Every failure, network or otherwise, comes
//back as a *LookupError wrapping the cause, so callers can tell a
//lookup problem from bad local input.
func PubChem(ctx context.Context, name string) (*ArrayInput, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pubchemTimeout)
		defer cancel()
	}
	u := fmt.Sprintf(pubchemURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &LookupError{Name: name, cause: err}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, &LookupError{Name: name, cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Name: name, cause: fmt.Errorf("pubchem answered %s", resp.Status)}
	}
	var rec pubchemRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, &LookupError{Name: name, cause: err}
	}
	if len(rec.PCCompounds) == 0 {
		return nil, &LookupError{Name: name, cause: fmt.Errorf("no compound in the pubchem answer")}
	}
	c := rec.PCCompounds[0]
	if len(c.Coords) == 0 || len(c.Coords[0].Conformers) == 0 {
		return nil, &LookupError{Name: name, cause: fmt.Errorf("no conformer in the pubchem answer")}
	}
	conf := c.Coords[0].Conformers[0]
	nat := len(c.Atoms.Element)
	if len(conf.X) != nat || len(conf.Y) != nat || len(conf.Z) != nat {
		return nil, &LookupError{Name: name, cause: fmt.Errorf("pubchem conformer length disagrees with the atom count")}
	}
	in := &ArrayInput{
		Units:   "angstrom",
		Name:    name,
		Routine: "PubChem",
	}
	for i := 0; i < nat; i++ {
		in.Symbols = append(in.Symbols, strconv.Itoa(c.Atoms.Element[i]))
		in.Geometry = append(in.Geometry, conf.X[i], conf.Y[i], conf.Z[i])
	}
	return in, nil
}
