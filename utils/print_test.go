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

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMockDb(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mockDb, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mockDb
}

func TestPrinter_NewPrinter(t *testing.T) {
	p := NewPrinters()
	assert.NotNil(t, p)
}

func TestPrinter_AddPrinter(t *testing.T) {
	p := &Printers{[]Printer{}}
	p.AddPrinter(&PrinterToWriter{})
	p.AddPrinter(&PrinterToWriter{})
	assert.Equal(t, 2, len(p.printers))
}

func TestPrinter_Print(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := NewMockPrinter(ctrl)
	second := NewMockPrinter(ctrl)
	p := &Printers{[]Printer{first, second}}

	gomock.InOrder(
		first.EXPECT().Print().Return(nil),
		second.EXPECT().Print().Return(nil),
	)
	assert.NoError(t, p.Print())
}

func TestPrinter_PrintStopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := NewMockPrinter(ctrl)
	second := NewMockPrinter(ctrl)
	p := &Printers{[]Printer{first, second}}

	mockErr := errors.New("mock error")
	first.EXPECT().Print().Return(mockErr)
	assert.ErrorIs(t, p.Print(), mockErr)
}

func TestPrinter_CloseReportsAllErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	first := NewMockPrinter(ctrl)
	second := NewMockPrinter(ctrl)
	p := &Printers{[]Printer{first, second}}

	firstErr := errors.New("first")
	secondErr := errors.New("second")
	first.EXPECT().Close().Return(firstErr)
	second.EXPECT().Close().Return(secondErr)

	err := p.Close()
	assert.ErrorIs(t, err, firstErr)
	assert.ErrorIs(t, err, secondErr)
}

func TestPrinters_AddPrinterToWriter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinters().AddPrinterToWriter(&buf, func() string {
		return "11"
	})
	require.NoError(t, p.Print())
	require.NoError(t, p.Print())
	assert.Equal(t, "11\n11\n", buf.String())
}

func TestPrinters_AddPrinterToFile(t *testing.T) {
	p := &Printers{}
	p.AddPrinterToFile(filepath.Join(t.TempDir(), "rolls.txt"), func() string {
		return "11"
	})
	assert.Equal(t, 1, len(p.printers))

	p = &Printers{}
	p.AddPrinterToFile("", func() string {
		return "11"
	})
	assert.Equal(t, 0, len(p.printers))
}

func TestPrinterToFile_PrintAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolls.txt")
	value := "11"
	p := NewPrinterToFile(path, func() string {
		return value
	})

	require.NoError(t, p.Print())
	value = "7"
	require.NoError(t, p.Print())
	require.NoError(t, p.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "11\n7\n", string(content))
}

func TestPrinterToFile_PrintCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rolls.txt.gz")
	value := "11"
	p := NewPrinterToFile(path, func() string {
		return value
	})

	require.NoError(t, p.Print())
	value = "7"
	require.NoError(t, p.Print())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	zr, err := gzip.NewReader(file)
	require.NoError(t, err)
	content, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, "11\n7\n", string(content))
}

func TestPrinterToFile_PrintFailsForMissingDirectory(t *testing.T) {
	p := NewPrinterToFile(filepath.Join(t.TempDir(), "missing", "rolls.txt"), func() string {
		return "11"
	})
	assert.Error(t, p.Print())
}

func TestPrinterToDb_Print(t *testing.T) {
	db, mockDb := newMockDb(t)
	defer db.Close()

	const insert = "INSERT INTO history"
	p := &PrinterToDb{
		db:     db,
		insert: insert,
		f: func() [][]any {
			return [][]any{{"3d6", "11"}}
		},
	}

	// case success
	mockDb.ExpectBegin()
	mockDb.ExpectPrepare(insert).WillBeClosed()
	mockDb.ExpectExec(insert).WithArgs("3d6", "11").WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectCommit()
	assert.NoError(t, p.Print())

	// case Begin error
	mockErr := errors.New("mock error")
	mockDb.ExpectBegin().WillReturnError(mockErr)
	assert.Error(t, p.Print())

	// case Prepare error
	mockDb.ExpectBegin()
	mockDb.ExpectPrepare(insert).WillReturnError(mockErr)
	mockDb.ExpectRollback()
	assert.Error(t, p.Print())

	// case Exec error
	mockDb.ExpectBegin()
	mockDb.ExpectPrepare(insert).WillBeClosed()
	mockDb.ExpectExec(insert).WillReturnError(mockErr)
	mockDb.ExpectRollback()
	assert.Error(t, p.Print())

	// case Commit error
	mockDb.ExpectBegin()
	mockDb.ExpectPrepare(insert).WillBeClosed()
	mockDb.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectCommit().WillReturnError(mockErr)
	assert.Error(t, p.Print())

	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestPrinterToDb_Close(t *testing.T) {
	db, mockDb := newMockDb(t)

	p := &PrinterToDb{db: db}
	mockDb.ExpectClose()
	assert.NoError(t, p.Close())
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestPrinterToDb_newPrinterToDbCreatesTable(t *testing.T) {
	db, mockDb := newMockDb(t)
	defer db.Close()

	mockDb.ExpectExec("CREATE TABLE IF NOT EXISTS history").WillReturnResult(sqlmock.NewResult(0, 0))
	p, err := newPrinterToDb(db, HistorySchema, HistoryInsert, nil)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestPrinterToDb_newPrinterToDbClosesOnError(t *testing.T) {
	db, mockDb := newMockDb(t)

	mockDb.ExpectExec("CREATE TABLE").WillReturnError(errors.New("mock error"))
	mockDb.ExpectClose()
	p, err := newPrinterToDb(db, HistorySchema, HistoryInsert, nil)
	assert.Error(t, err)
	assert.Nil(t, p)
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestPrinterToDb_NewPrinterToSqlite3(t *testing.T) {
	// case success
	p, err := NewPrinterToSqlite3(":memory:", HistorySchema, HistoryInsert, func() [][]any {
		return [][]any{}
	})
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.NoError(t, p.Close())

	// case error
	p, err = NewPrinterToSqlite3(":memory:", "asfd;asdf", "", func() [][]any {
		return [][]any{}
	})
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestPrinterToDb_Bufferize(t *testing.T) {
	p := &PrinterToDb{}
	buf, f := p.Bufferize(10)
	assert.Equal(t, 10, buf.capacity)
	assert.Equal(t, 0, buf.Length())
	assert.Equal(t, buf, f.bf)
	assert.Equal(t, p, f.og)
}

func TestPrinterToBuffer_PrintFlushesWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockFlusher := NewMockIFlusher(ctrl)
	p := &PrinterToBuffer{
		capacity: 2,
		f: func() [][]any {
			return [][]any{{"3d6", "11"}}
		},
		flusher: mockFlusher,
	}

	require.NoError(t, p.Print())
	assert.Equal(t, 1, p.Length())

	mockFlusher.EXPECT().Print().Return(nil).Times(1)
	require.NoError(t, p.Print())
}

func TestPrinterToBuffer_CloseClosesFlusher(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockFlusher := NewMockIFlusher(ctrl)
	p := &PrinterToBuffer{flusher: mockFlusher}
	mockFlusher.EXPECT().Close().Return(nil).Times(1)
	assert.NoError(t, p.Close())
}

func TestPrinterToBuffer_Reset(t *testing.T) {
	p := &PrinterToBuffer{buffer: make([][]any, 10)}
	assert.Equal(t, 10, p.Length())
	p.Reset()
	assert.Equal(t, 0, p.Length())
}

func TestFlusher_Print(t *testing.T) {
	db, mockDb := newMockDb(t)
	defer db.Close()

	og := &PrinterToDb{db: db, insert: "INSERT"}
	bf := &PrinterToBuffer{buffer: [][]any{{"1d6", "4"}, {"1d6", "2"}}}
	f := &Flusher{og: og, bf: bf}

	mockDb.ExpectBegin()
	mockDb.ExpectPrepare("INSERT").WillBeClosed()
	mockDb.ExpectExec("INSERT").WithArgs("1d6", "4").WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectExec("INSERT").WithArgs("1d6", "2").WillReturnResult(sqlmock.NewResult(2, 1))
	mockDb.ExpectCommit()

	require.NoError(t, f.Print())
	assert.Equal(t, 0, bf.Length())
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestFlusher_CloseFlushesRemainder(t *testing.T) {
	db, mockDb := newMockDb(t)

	og := &PrinterToDb{db: db, insert: "INSERT"}
	bf := &PrinterToBuffer{buffer: [][]any{{"1d6", "4"}}}
	f := &Flusher{og: og, bf: bf}

	mockDb.ExpectBegin()
	mockDb.ExpectPrepare("INSERT").WillBeClosed()
	mockDb.ExpectExec("INSERT").WithArgs("1d6", "4").WillReturnResult(sqlmock.NewResult(1, 1))
	mockDb.ExpectCommit()
	mockDb.ExpectClose()

	require.NoError(t, f.Close())
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestFlusher_CloseWithEmptyBuffer(t *testing.T) {
	db, mockDb := newMockDb(t)

	f := &Flusher{og: &PrinterToDb{db: db}, bf: &PrinterToBuffer{}}
	mockDb.ExpectClose()

	require.NoError(t, f.Close())
	assert.NoError(t, mockDb.ExpectationsWereMet())
}

func TestPrinters_AddPrinterToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	row := []any{"2024-01-01T00:00:00Z", "3d6", "roll", "193", "11"}

	p, err := NewPrinters().AddPrinterToHistory(path, 4, func() [][]any {
		return [][]any{row}
	})
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Print())
	}
	require.NoError(t, p.Close())

	db, err := sqlx.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM history WHERE expression = ?", "3d6"))
	assert.Equal(t, 6, count)
}

func TestPrinters_AddPrinterToHistoryWithoutPath(t *testing.T) {
	p, err := NewPrinters().AddPrinterToHistory("", 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, len(p.printers))
}
