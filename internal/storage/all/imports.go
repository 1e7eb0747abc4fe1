// Package all registers every storage backend via side effects.
// Import it for the blank identifier from a main package to make the
// full set available to storage.New.
package all

import (
	_ "github.com/Krishneshvar/subsync-import/internal/storage/csvfile"
	_ "github.com/Krishneshvar/subsync-import/internal/storage/mssql"
	_ "github.com/Krishneshvar/subsync-import/internal/storage/mysql"
	_ "github.com/Krishneshvar/subsync-import/internal/storage/postgres"
	_ "github.com/Krishneshvar/subsync-import/internal/storage/sqlite"
)
