package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"secret-santa/domain"
	"secret-santa/services"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Dumps the store: participants as a table, or thread metadata with -threads.
// Thread text is never printed.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	threads := flag.Bool("threads", false, "List threads instead of participants")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if *threads {
		err = listThreads(db)
	} else {
		err = listParticipants(db)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func listParticipants(db *badger.DB) error {
	var participants []domain.Participant
	err := scan(db, "participant:", func(key string, v []byte) {
		var p domain.Participant
		if err := json.Unmarshal(v, &p); err != nil {
			fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
			return
		}
		participants = append(participants, p)
	})
	if err != nil {
		return err
	}
	services.WriteParticipantTable(os.Stdout, participants)
	return nil
}

func listThreads(db *badger.DB) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "ID", "Santa", "Child", "Entries", "Created", "Updated"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	err := scan(db, "thread:", func(key string, v []byte) {
		var t domain.Thread
		if err := json.Unmarshal(v, &t); err != nil {
			fmt.Printf("Error unmarshaling key %s: %v\n", key, err)
			return
		}
		table.Append([]string{
			key,
			t.ID.String()[:8],
			t.Key.Santa.String(),
			t.Key.Child.String(),
			fmt.Sprint(strings.Count(t.Text, "\n") + 1),
			t.CreatedAt.Format("2006-01-02 15:04"),
			t.UpdatedAt.Format("2006-01-02 15:04"),
		})
	})
	if err != nil {
		return err
	}
	table.Render()
	return nil
}

func scan(db *badger.DB, prefix string, fn func(key string, v []byte)) error {
	return db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if err := item.Value(func(v []byte) error {
				fn(key, v)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil && strings.Contains(err.Error(), "Log truncate required") {
		// A crashed writer leaves the value log untruncated: open once in write mode to repair.
		repairOpts := badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true)
		repaired, rerr := badger.Open(repairOpts)
		if rerr != nil {
			return nil, fmt.Errorf("repair failed: %w", rerr)
		}
		_ = repaired.Close()
		return badger.Open(opts)
	}
	return db, err
}
