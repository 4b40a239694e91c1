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

package utils

// HistorySchema creates the table holding one row per evaluation.
const HistorySchema = `CREATE TABLE IF NOT EXISTS history (
	time TEXT NOT NULL,
	expression TEXT NOT NULL,
	mode TEXT NOT NULL,
	seed TEXT,
	result TEXT NOT NULL
)`

// HistoryInsert stores one evaluation. The seed is text since sqlite
// integers are signed 64-bit; it is NULL for distributions.
const HistoryInsert = `INSERT INTO history (time, expression, mode, seed, result) VALUES (?, ?, ?, ?, ?)`

// AddPrinterToHistory appends the rows produced by f to the history table of
// the sqlite3 database at conn. Rows are buffered and written in batches of
// capacity; closing the printers writes what is left.
func (ps *Printers) AddPrinterToHistory(conn string, capacity int, f func() [][]any) (*Printers, error) {
	if conn == "" {
		return ps, nil
	}
	p, err := NewPrinterToSqlite3(conn, HistorySchema, HistoryInsert, f)
	if err != nil {
		return ps, err
	}
	if capacity <= 1 {
		return ps.AddPrinter(p), nil
	}
	buffer, _ := p.Bufferize(capacity)
	return ps.AddPrinter(buffer), nil
}
