package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/wcprep/internal/adapters/sqlite"
	"github.com/okian/wcprep/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func subset() *table.Table {
	t := table.New("match_id", "match_date", "home_team_score", "draw", "stadium")
	t.Rows = [][]table.Value{
		{table.Str("M-1930-01"), table.DateOf(time.Date(1930, 7, 13, 0, 0, 0, 0, time.UTC)), table.Number(4), table.Integer(0), table.Str("Estadio Pocitos")},
		{table.Str("M-1930-02"), table.NA(), table.NA(), table.Integer(1), table.NA()},
	}
	return t
}

func TestColumnTypes(t *testing.T) {
	Convey("Given a typed table", t, func() {
		Convey("Then column types should follow the present values", func() {
			So(sqlite.ColumnTypes(subset()), ShouldResemble, []string{"TEXT", "TEXT", "REAL", "INTEGER", "TEXT"})
		})
	})
}

func TestExport(t *testing.T) {
	Convey("Given a database path", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "matches.sqlite")

		Convey("When exporting the same subset twice", func() {
			So(sqlite.Export(ctx, path, table.Named{Name: "matches_train", Table: subset()}), ShouldBeNil)
			err := sqlite.Export(ctx, path, table.Named{Name: "matches_train", Table: subset()})

			Convey("Then the table should be recreated, not appended to", func() {
				So(err, ShouldBeNil)

				db, err := sql.Open("sqlite", path)
				So(err, ShouldBeNil)
				defer func() { _ = db.Close() }()

				var n int
				So(db.QueryRow(`SELECT COUNT(*) FROM matches_train`).Scan(&n), ShouldBeNil)
				So(n, ShouldEqual, 2)

				var date sql.NullString
				var score sql.NullFloat64
				var draw int64
				So(db.QueryRow(`SELECT match_date, home_team_score, draw FROM matches_train WHERE match_id = 'M-1930-01'`).
					Scan(&date, &score, &draw), ShouldBeNil)
				So(date.String, ShouldEqual, "1930-07-13")
				So(score.Float64, ShouldEqual, 4.0)
				So(draw, ShouldEqual, 0)

				So(db.QueryRow(`SELECT match_date, home_team_score FROM matches_train WHERE match_id = 'M-1930-02'`).
					Scan(&date, &score), ShouldBeNil)
				So(date.Valid, ShouldBeFalse)
				So(score.Valid, ShouldBeFalse)
			})
		})
	})
}
