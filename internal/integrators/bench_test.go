package integrators

import "testing"

func benchmarkStepper(b *testing.B, s Stepper, n int) {
	bodies := ring(b, n)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(bodies, 0.001, 1000)
	}
}

func BenchmarkLeapfrog_3(b *testing.B)     { benchmarkStepper(b, NewLeapfrog(), 3) }
func BenchmarkSequential_3(b *testing.B)   { benchmarkStepper(b, NewSequential(), 3) }
func BenchmarkEuler_3(b *testing.B)        { benchmarkStepper(b, NewEuler(), 3) }
func BenchmarkLeapfrog_200(b *testing.B)   { benchmarkStepper(b, NewLeapfrog(), 200) }
func BenchmarkSequential_200(b *testing.B) { benchmarkStepper(b, NewSequential(), 200) }

func BenchmarkLeapfrogParallel_200(b *testing.B) {
	benchmarkStepper(b, NewLeapfrog().WithWorkers(4, 16), 200)
}
