package cmd

// defaultStatusLineWidth is the width assumed for the status line when the
// output stream isn't a terminal (so its size can't be queried) or the size
// query fails. It's one column narrower than the 80-column default console
// width because carriage return wipes don't work on Windows if the cursor
// has already printed a character in the last position of the line.
const defaultStatusLineWidth = 79
