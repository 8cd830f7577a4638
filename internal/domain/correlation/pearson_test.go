package correlation_test

import (
	"testing"

	correlation "github.com/alramalho/self-tracking-software-sub007/internal/domain/correlation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPearson(t *testing.T) {
	Convey("Given the Pearson coefficient primitive", t, func() {
		Convey("When the vectors move together perfectly", func() {
			x := []float64{1, 2, 3, 4, 5}
			y := []float64{2, 4, 6, 8, 10}

			Convey("Then the coefficient is 1", func() {
				So(correlation.Pearson(x, y), ShouldAlmostEqual, 1.0, 1e-12)
			})
		})

		Convey("When the vectors move in opposition", func() {
			x := []float64{1, 2, 3, 4, 5}
			y := []float64{5, 4, 3, 2, 1}

			Convey("Then the coefficient is -1", func() {
				So(correlation.Pearson(x, y), ShouldAlmostEqual, -1.0, 1e-12)
			})
		})

		Convey("When ratings rise with late occurrence", func() {
			ratings := []float64{1, 2, 3, 4, 5}
			occurred := []float64{0, 0, 1, 1, 1}

			Convey("Then the coefficient is strongly positive", func() {
				So(correlation.Pearson(ratings, occurred), ShouldBeGreaterThan, 0.8)
			})
		})

		Convey("When ratings rise with early occurrence", func() {
			ratings := []float64{1, 2, 3, 4, 5}
			occurred := []float64{1, 1, 1, 0, 0}

			Convey("Then the coefficient is strongly negative", func() {
				So(correlation.Pearson(ratings, occurred), ShouldBeLessThan, -0.8)
			})
		})

		Convey("Then the coefficient is symmetric in its arguments", func() {
			x := []float64{3, 1, 4, 1, 5, 9, 2}
			y := []float64{2, 7, 1, 8, 2, 8, 1}
			So(correlation.Pearson(x, y), ShouldAlmostEqual, correlation.Pearson(y, x), 1e-12)
		})

		Convey("Then the coefficient stays inside [-1, 1]", func() {
			x := []float64{0.1, 42, -7, 3.5, 11, 0}
			y := []float64{5, -2, 19, 0.004, -11, 6}
			r := correlation.Pearson(x, y)
			So(r, ShouldBeGreaterThanOrEqualTo, -1)
			So(r, ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("When a vector is constant", func() {
			x := []float64{4, 4, 4, 4}
			y := []float64{1, 2, 3, 4}

			Convey("Then the degenerate coefficient is defined as 0", func() {
				So(correlation.Pearson(x, y), ShouldEqual, 0)
			})
		})

		Convey("When the vectors are empty or mismatched", func() {
			So(correlation.Pearson(nil, nil), ShouldEqual, 0)
			So(correlation.Pearson([]float64{1, 2}, []float64{1}), ShouldEqual, 0)
		})
	})
}
