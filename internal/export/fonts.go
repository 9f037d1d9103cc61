/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"gobanner/internal/domain"
)

// Packaged fonts stand in for the browser font stacks during raster export.
// The Go font family has no serif cut, so serif falls back to the regular face.
var familyTTF = map[string][]byte{
	domain.DefaultFontFamily: goregular.TTF,
	"serif":                  goregular.TTF,
	"mono":                   gomono.TTF,
	"display":                gobold.TTF,
	"script":                 goitalic.TTF,
}

var (
	fontMu     sync.Mutex
	parsedTTFs map[string]*opentype.Font
)

func parsedFont(family string) (*opentype.Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()
	if parsedTTFs == nil {
		parsedTTFs = make(map[string]*opentype.Font)
	}
	if f, ok := parsedTTFs[family]; ok {
		return f, nil
	}
	ttf, ok := familyTTF[family]
	if !ok {
		ttf = familyTTF[domain.DefaultFontFamily]
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse packaged font for %s: %w", family, err)
	}
	parsedTTFs[family] = f
	return f, nil
}

// faceFor returns a rendering face for a field's font family at the given
// pixel size. Unknown families fall back to the default sans face.
func faceFor(family string, sizePx float64) (font.Face, error) {
	f, err := parsedFont(family)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build face for %s: %w", family, err)
	}
	return face, nil
}
