/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Template describes the background template a banner is edited over. The
// editable surface always matches the background's natural pixel dimensions.
type Template struct {
	StableID  string  `json:"stable_id,omitempty"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price,omitempty"`
	ImagePath string  `json:"image_path"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
}

// Banner is the serializable editor document: a template reference plus the
// ordered field layout. It is what the draft manifest stores on disk.
type Banner struct {
	Template Template `json:"template"`
	Fields   []Record `json:"fields"`
}
