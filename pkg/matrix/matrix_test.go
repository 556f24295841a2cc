package matrix

import "testing"

func TestAddElementAndDense(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddElement(0, 0, 3)
	m.AddElement(0, 0, 1) // accumulates
	m.AddElement(0, 1, -2)

	d := m.Dense()
	if got := d.At(0, 0); got != 4 {
		t.Errorf("A[0,0] = %v, want 4", got)
	}
	if got := d.At(0, 1); got != -2 {
		t.Errorf("A[0,1] = %v, want -2", got)
	}
	if got := d.At(1, 1); got != 0 {
		t.Errorf("A[1,1] = %v, want 0", got)
	}
}

func TestAddElementOutOfRangeDropped(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddElement(-1, 0, 5) // ground row, must be dropped silently
	m.AddElement(0, -1, 5)
	m.AddElement(5, 5, 5)

	d := m.Dense()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if got := d.At(i, j); got != 0 {
				t.Errorf("A[%d,%d] = %v, want 0", i, j, got)
			}
		}
	}
}

func TestAddRHSAndRHS(t *testing.T) {
	m, err := New(3)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddRHS(1, 2.5)
	m.AddRHS(1, 0.5)
	b := m.RHS()
	if b[1] != 3.0 {
		t.Errorf("b[1] = %v, want 3.0", b[1])
	}
	if b[0] != 0 || b[2] != 0 {
		t.Errorf("unexpected nonzero RHS entries: %v", b)
	}
}

func TestClearResetsMatrixAndRHS(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddElement(0, 0, 10)
	m.AddRHS(0, 5)
	m.Clear()

	d := m.Dense()
	if got := d.At(0, 0); got != 0 {
		t.Errorf("A[0,0] after Clear = %v, want 0", got)
	}
	if b := m.RHS(); b[0] != 0 {
		t.Errorf("b[0] after Clear = %v, want 0", b[0])
	}
}

func TestIsSymmetric(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddElement(0, 0, 1)
	m.AddElement(0, 1, -1)
	m.AddElement(1, 0, -1)
	m.AddElement(1, 1, 1)
	if !m.IsSymmetric(1e-12) {
		t.Error("expected symmetric matrix to be reported symmetric")
	}

	m.AddElement(1, 0, -0.5) // breaks symmetry
	if m.IsSymmetric(1e-12) {
		t.Error("expected asymmetric matrix to be reported asymmetric")
	}
}

func TestTriplets(t *testing.T) {
	m, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Destroy()

	m.AddElement(0, 0, 2)
	m.AddElement(1, 1, 3)

	rows, cols, vals := m.Triplets()
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	if len(rows) != 2 || len(cols) != 2 || sum != 5 {
		t.Errorf("triplets = rows:%v cols:%v vals:%v, want two entries summing to 5", rows, cols, vals)
	}
}
