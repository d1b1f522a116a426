package scoring_test

import (
	"testing"

	model "github.com/okian/echotone/internal/domain/model"
	scoring "github.com/okian/echotone/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func target(x, y, off float64) model.Target {
	return model.Target{X: x, Y: y, TimeOffsetMs: off}
}

func input(x, y, t float64) model.PlayerInput {
	return model.PlayerInput{X: x, Y: y, TimeMs: t}
}

func TestScorePerfectReplication(t *testing.T) {
	Convey("Given a scorer with default tolerances", t, func() {
		s := scoring.NewDualAxisScorer()

		Convey("When the player replays the sequence exactly", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(400, 200, 500),
				target(700, 300, 1250),
			}
			inputs := []model.PlayerInput{
				input(100, 100, 9000),
				input(400, 200, 9500),
				input(700, 300, 10250),
			}

			Convey("Then every component should be perfect", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 100, Rhythm: 100, Total: 100})
			})
		})

		Convey("When a single target is hit exactly", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(400, 200, 42)})

			Convey("Then the score should be perfect with rhythm defaulting to 100", func() {
				So(got, ShouldResemble, model.Score{Position: 100, Rhythm: 100, Total: 100})
			})
		})

		Convey("When the perfect taps land out of order", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(700, 300, 500),
			}
			inputs := []model.PlayerInput{
				input(700, 300, 0),
				input(100, 100, 500),
			}

			Convey("Then greedy matching should still pair every tap", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 100, Rhythm: 100, Total: 100})
			})
		})
	})
}

func TestScoreEmptyLists(t *testing.T) {
	Convey("Given a scorer with default tolerances", t, func() {
		s := scoring.NewDualAxisScorer()
		targets := []model.Target{target(100, 100, 0)}
		inputs := []model.PlayerInput{input(100, 100, 0)}

		Convey("When there are no inputs", func() {
			So(s.Score(targets, nil), ShouldResemble, model.Score{})
		})

		Convey("When there are no targets", func() {
			So(s.Score(nil, inputs), ShouldResemble, model.Score{})
		})

		Convey("When both lists are empty", func() {
			So(s.Score(nil, nil), ShouldResemble, model.Score{})
		})
	})
}

func TestScorePositionAxis(t *testing.T) {
	Convey("Given a scorer with default tolerances", t, func() {
		s := scoring.NewDualAxisScorer()

		Convey("When a tap lands 90px from its single target", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(490, 200, 0)})

			Convey("Then position credit should degrade linearly", func() {
				So(got, ShouldResemble, model.Score{Position: 40, Rhythm: 100, Total: 70})
			})
		})

		Convey("When a tap lands exactly at the error radius", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(550, 200, 0)})

			Convey("Then position credit should be zero, not negative", func() {
				So(got, ShouldResemble, model.Score{Position: 0, Rhythm: 100, Total: 50})
			})
		})

		Convey("When a tap lands far beyond the error radius", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(700, 200, 0)})

			Convey("Then position credit should clamp at zero", func() {
				So(got, ShouldResemble, model.Score{Position: 0, Rhythm: 100, Total: 50})
			})
		})

		Convey("When taps crowd one side of two close targets", func() {
			targets := []model.Target{
				target(0, 0, 0),
				target(10, 0, 500),
			}
			inputs := []model.PlayerInput{
				input(9, 0, 0),
				input(11, 0, 500),
			}

			Convey("Then matching should be greedy in arrival order, not optimal", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 96, Rhythm: 100, Total: 98})
			})
		})

		Convey("When two targets share a position", func() {
			targets := []model.Target{
				target(300, 200, 0),
				target(300, 200, 500),
			}
			inputs := []model.PlayerInput{
				input(300, 200, 0),
				input(300, 200, 500),
			}

			Convey("Then each tap should claim its own target", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 100, Rhythm: 100, Total: 100})
			})
		})

		Convey("When there are more taps than targets", func() {
			targets := []model.Target{target(400, 200, 0)}
			inputs := []model.PlayerInput{
				input(400, 200, 0),
				input(100, 100, 300),
				input(600, 350, 600),
			}

			Convey("Then the extra taps should earn nothing and cost nothing spatially", func() {
				got := s.Score(targets, inputs)
				So(got.Position, ShouldEqual, 100)
			})
		})
	})
}

func TestScoreRhythmAxis(t *testing.T) {
	Convey("Given a scorer with default tolerances", t, func() {
		s := scoring.NewDualAxisScorer()

		Convey("When the replayed gap drifts by half the tolerance", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(700, 300, 500),
			}
			inputs := []model.PlayerInput{
				input(100, 100, 0),
				input(700, 300, 700),
			}

			Convey("Then rhythm credit should degrade linearly", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 100, Rhythm: 50, Total: 75})
			})
		})

		Convey("When the same taps happen much later", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(700, 300, 500),
			}
			early := []model.PlayerInput{
				input(100, 100, 1000),
				input(700, 300, 1700),
			}
			late := []model.PlayerInput{
				input(100, 100, 61000),
				input(700, 300, 61700),
			}

			Convey("Then a constant shift should not change the score", func() {
				So(s.Score(targets, early), ShouldResemble, s.Score(targets, late))
			})
		})

		Convey("When only some targets receive taps", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(400, 200, 500),
				target(700, 300, 1000),
			}
			inputs := []model.PlayerInput{
				input(100, 100, 3000),
				input(400, 200, 3500),
			}

			Convey("Then the missing interval should count as zero credit", func() {
				So(s.Score(targets, inputs), ShouldResemble, model.Score{Position: 67, Rhythm: 50, Total: 58})
			})
		})

		Convey("When the round has a single target", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(410, 205, 0)})

			Convey("Then rhythm should default to perfect", func() {
				So(got.Rhythm, ShouldEqual, 100)
			})
		})

		Convey("When only one tap answers a multi-target round", func() {
			targets := []model.Target{
				target(100, 100, 0),
				target(700, 300, 500),
			}
			got := s.Score(targets, []model.PlayerInput{input(100, 100, 0)})

			Convey("Then rhythm should default to perfect while position suffers", func() {
				So(got.Rhythm, ShouldEqual, 100)
				So(got.Position, ShouldEqual, 50)
			})
		})
	})
}

func TestScoreToleranceOptions(t *testing.T) {
	Convey("Given a scorer with widened tolerances", t, func() {
		s := scoring.NewDualAxisScorer(
			scoring.WithMaxPositionError(300),
			scoring.WithMaxRhythmError(800),
		)

		Convey("When a tap lands 150px off", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(550, 200, 0)})

			Convey("Then the wider radius should grant half credit", func() {
				So(got.Position, ShouldEqual, 50)
			})
		})

		Convey("When a gap drifts 400ms", func() {
			targets := []model.Target{target(100, 100, 0), target(700, 300, 500)}
			inputs := []model.PlayerInput{input(100, 100, 0), input(700, 300, 900)}
			got := s.Score(targets, inputs)

			Convey("Then the wider window should grant half credit", func() {
				So(got.Rhythm, ShouldEqual, 50)
			})
		})
	})

	Convey("Given options with rejected values", t, func() {
		s := scoring.NewDualAxisScorer(
			scoring.WithMaxPositionError(0),
			scoring.WithMaxRhythmError(-5),
		)

		Convey("Then the defaults should remain in force", func() {
			got := s.Score([]model.Target{target(400, 200, 0)}, []model.PlayerInput{input(475, 200, 0)})
			So(got.Position, ShouldEqual, 50)
		})
	})
}

func TestPolicy(t *testing.T) {
	Convey("Given the default policy", t, func() {
		p := scoring.DefaultPolicy()

		Convey("When a balanced round clears every floor", func() {
			So(p.Passes(model.Score{Position: 85, Rhythm: 72, Total: 78}), ShouldBeTrue)
		})

		Convey("When the total is strong but position collapses", func() {
			So(p.Passes(model.Score{Position: 20, Rhythm: 90, Total: 55}), ShouldBeFalse)
		})

		Convey("When the rhythm floor is missed", func() {
			So(p.Passes(model.Score{Position: 90, Rhythm: 20, Total: 55}), ShouldBeFalse)
		})

		Convey("When the total floor is missed", func() {
			So(p.Passes(model.Score{Position: 60, Rhythm: 40, Total: 45}), ShouldBeFalse)
		})

		Convey("When every component sits exactly on its floor", func() {
			So(p.Passes(model.Score{Position: 30, Rhythm: 30, Total: 50}), ShouldBeTrue)
		})

		Convey("When a component sits one below its floor", func() {
			So(p.Passes(model.Score{Position: 29, Rhythm: 30, Total: 50}), ShouldBeFalse)
			So(p.Passes(model.Score{Position: 30, Rhythm: 29, Total: 50}), ShouldBeFalse)
			So(p.Passes(model.Score{Position: 30, Rhythm: 30, Total: 49}), ShouldBeFalse)
		})
	})

	Convey("Given a custom stricter policy", t, func() {
		p := scoring.Policy{MinTotal: 80, MinPosition: 70, MinRhythm: 70}

		Convey("Then a merely decent round should fail", func() {
			So(p.Passes(model.Score{Position: 75, Rhythm: 72, Total: 74}), ShouldBeFalse)
		})

		Convey("Then an excellent round should pass", func() {
			So(p.Passes(model.Score{Position: 92, Rhythm: 88, Total: 90}), ShouldBeTrue)
		})
	})
}
