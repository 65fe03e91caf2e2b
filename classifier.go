package reveal

// Classify samples every cell's color at its generating site, computes the cell
// area and files the cell into the first region, in the given order, whose
// threshold strictly exceeds the L1 distance between the two colors.
// Cells matching no region are left unassigned.
//
// Classification is a one-shot pass: running it twice over the same regions
// would file the cells again.
func Classify(cells []*Cell, regions []*Region, surface Surface) {
	for _, c := range cells {
		c.Color = surface.Sample(c.Site)
		c.Area = c.Polygon.Area()

		for _, r := range regions {
			if r.matches(c.Color) {
				r.add(c)
				break
			}
		}
	}
}
