package xlsx_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okian/wcprep/internal/adapters/xlsx"
	"github.com/okian/wcprep/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExport(t *testing.T) {
	Convey("Given train and test subsets", t, func() {
		ctx := context.Background()
		train := table.New("match_id", "home_team_score", "year")
		train.Rows = [][]table.Value{{table.Str("M-2018-01"), table.Integer(5), table.Integer(2018)}}
		test := table.New("match_id", "home_team_score", "year")
		test.Rows = [][]table.Value{{table.Str("M-2022-01"), table.NA(), table.Integer(2022)}}
		path := filepath.Join(t.TempDir(), "matches.xlsx")

		Convey("When exporting them", func() {
			err := xlsx.Export(ctx, path,
				table.Named{Name: "train", Table: train},
				table.Named{Name: "test", Table: test},
			)

			Convey("Then the workbook should hold one sheet per subset", func() {
				So(err, ShouldBeNil)

				f, err := excelize.OpenFile(path)
				So(err, ShouldBeNil)
				defer func() { _ = f.Close() }()

				So(f.GetSheetList(), ShouldResemble, []string{"train", "test"})

				rows, err := f.GetRows("train")
				So(err, ShouldBeNil)
				So(rows[0], ShouldResemble, []string{"match_id", "home_team_score", "year"})
				So(rows[1], ShouldResemble, []string{"M-2018-01", "5", "2018"})

				rows, err = f.GetRows("test")
				So(err, ShouldBeNil)
				So(rows[1][0], ShouldEqual, "M-2022-01")
				So(rows[1][1], ShouldEqual, "")
			})
		})

		Convey("When no tables are given", func() {
			err := xlsx.Export(ctx, path)

			Convey("Then an export error should be returned", func() {
				So(errors.Is(err, xlsx.ErrExport), ShouldBeTrue)
			})
		})
	})
}
